package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/ingest"
	"bookshelf/internal/logging"
	"bookshelf/internal/platform/googlebooks"
)

func main() {
	author := flag.String("author", "", "Author whose volumes are imported")
	flag.Parse()

	if *author == "" {
		fmt.Fprintln(os.Stderr, "usage: import -author \"Frank Herbert\"")
		os.Exit(2)
	}

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", config.RedactDSN(cfg.DB.DSN)).Msg("failed to connect to database")
	}
	defer pool.Close()

	source := googlebooks.NewClient(googlebooks.Config{
		BaseURL:   cfg.GoogleBooks.BaseURL,
		APIKey:    cfg.GoogleBooks.APIKey,
		UserAgent: "bookshelf-import",
		RPS:       cfg.GoogleBooks.RPS,
		Timeout:   cfg.GoogleBooks.Timeout,
	})
	svc := ingest.NewService(source, book.NewPostgresRepo(pool, cfg.DB.QueryTimeout))

	res, err := svc.Import(ctx, *author)
	if err != nil {
		log.Error().Err(err).Str("state", string(res.State)).Msg("import failed")
		pool.Close()
		os.Exit(1)
	}
	fmt.Printf("imported: %d\n", res.Processed)
}
