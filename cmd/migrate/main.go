package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/config"
	"bookshelf/internal/logging"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})

	if *command == "create" {
		if *name == "" {
			log.Fatal().Msg("name is required for 'create' command")
		}
		if err := goose.Create(nil, migrationsDir(), *name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("failed to create migration")
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", config.RedactDSN(cfg.DB.DSN)).Msg("failed to connect to database")
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	dir := configureSource()
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("set dialect")
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			log.Fatal().Err(err).Msg("failed to rollback migrations")
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
			log.Fatal().Err(err).Msg("failed to check migration status")
		}
	default:
		log.Fatal().Str("command", *command).Msg("unknown command, use: up, down, status, create")
	}
}
