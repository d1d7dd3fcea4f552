package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/samirrijal/geotz/internal/adapters/postgres"
	"github.com/samirrijal/geotz/internal/pkg/config"
	"github.com/samirrijal/geotz/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("geotz-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("all migrations applied")
	case "down":
		if err := postgres.Rollback(ctx, db); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("schema dropped")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
