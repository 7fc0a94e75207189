package main

import (
	"context"
	"flag"
	"log"
	"time"

	"usersapi/config"
	"usersapi/internal/db"
)

func main() {
	count := flag.Int("n", 50, "number of users to create")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if cfg.Ephemeral() {
		log.Fatalf("refusing to seed an in-memory database")
	}

	gormDB, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if err := db.SeedUsers(context.Background(), gormDB, *count, *seed); err != nil {
		log.Fatalf("seed users failed: %v", err)
	}

	log.Println("users seeded")
}
