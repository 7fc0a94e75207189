package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"usersapi/config"
	"usersapi/internal/models"
)

// NewDB открывает соединение с выбранным в конфиге бэкендом и создаёт схему.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.Driver, cfg.DSN, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open только подключается, без миграций.
func Open(driver, dsn string, quiet bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if quiet {
		gormCfg.Logger = logger.Default.LogMode(logger.Error)
	}

	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if driver == config.DriverSQLite && config.IsMemoryDSN(dsn) {
		// in-memory база живёт, пока открыто соединение; одно соединение — одна база
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

// Migrate создаёт таблицы, если их нет. Повторный вызов безопасен.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// WithSession выполняет fn в одной транзакции: commit при nil,
// rollback при ошибке или панике. Соединение освобождается в любом случае.
func WithSession(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
