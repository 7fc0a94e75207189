package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"usersapi/config"
	"usersapi/internal/models"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	gdb, err := Open(config.DriverSQLite, "file:"+name+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestNewDBEphemeral(t *testing.T) {
	cfg := &config.Config{Driver: config.DriverSQLite, DSN: "file:test_newdb?mode=memory&cache=shared"}
	gdb, err := NewDB(cfg)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := gdb.DB()
		sqlDB.Close()
	}()
	assert.True(t, gdb.Migrator().HasTable(&models.User{}))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x", true)
	require.Error(t, err)
}

func TestMigrateIdempotent(t *testing.T) {
	gdb := openTestDB(t, "test_migrate")
	require.NoError(t, Migrate(gdb))
	require.NoError(t, gdb.Create(&models.User{Name: "A", Email: "a@example.com"}).Error)
	require.NoError(t, Migrate(gdb))

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "migration must not drop rows")
	assert.True(t, gdb.Migrator().HasIndex(&models.User{}, "Email"))
}

func TestUserRoundTripUUID(t *testing.T) {
	gdb := openTestDB(t, "test_uuid_roundtrip")
	require.NoError(t, Migrate(gdb))

	u := models.User{Name: "John Doe", Email: "john@example.com"}
	require.NoError(t, gdb.Create(&u).Error)
	require.False(t, u.ID.IsNil())

	var got models.User
	require.NoError(t, gdb.Take(&got, "id = ?", u.ID).Error)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.CreatedAt.IsZero(), "created_at is assigned by the database")

	var raw string
	require.NoError(t, gdb.Raw("SELECT id FROM users").Scan(&raw).Error)
	assert.Equal(t, u.ID.String(), raw, "sqlite stores the canonical string form")
}

func TestUniqueEmailTranslated(t *testing.T) {
	gdb := openTestDB(t, "test_unique_email")
	require.NoError(t, Migrate(gdb))
	require.NoError(t, gdb.Create(&models.User{Name: "A", Email: "dup@example.com"}).Error)

	err := gdb.Create(&models.User{Name: "B", Email: "dup@example.com"}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestWithSessionRollback(t *testing.T) {
	gdb := openTestDB(t, "test_session_rollback")
	require.NoError(t, Migrate(gdb))
	boom := errors.New("boom")

	err := WithSession(context.Background(), gdb, func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{Name: "A", Email: "a@example.com"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithSessionPanicRollsBack(t *testing.T) {
	gdb := openTestDB(t, "test_session_panic")
	require.NoError(t, Migrate(gdb))

	assert.Panics(t, func() {
		_ = WithSession(context.Background(), gdb, func(tx *gorm.DB) error {
			tx.Create(&models.User{Name: "A", Email: "a@example.com"})
			panic("handler crashed")
		})
	})

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithSessionCommit(t *testing.T) {
	gdb := openTestDB(t, "test_session_commit")
	require.NoError(t, Migrate(gdb))

	err := WithSession(context.Background(), gdb, func(tx *gorm.DB) error {
		return tx.Create(&models.User{Name: "A", Email: "a@example.com"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
