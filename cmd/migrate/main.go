package main

import (
	"log"

	"usersapi/config"
	"usersapi/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	gormDB, err := db.Open(cfg.Driver, cfg.DSN, cfg.IsProduction())
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	log.Println("migration completed")
}
