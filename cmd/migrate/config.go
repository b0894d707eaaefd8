package main

import (
	"os"

	"github.com/pressly/goose/v3"

	"bookshelf/db"
)

const defaultMigrationsDir = "db/migrations"

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return defaultMigrationsDir
}

// configureSource points goose at MIGRATIONS_DIR when set and at the migrations
// embedded in the binary otherwise. It returns the directory to pass to goose.
func configureSource() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		goose.SetBaseFS(nil)
		return v
	}
	goose.SetBaseFS(db.Migrations)
	return db.MigrationsDir
}
