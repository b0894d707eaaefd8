package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"bookshelf/db"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/ingest"
	"bookshelf/internal/logging"
	"bookshelf/internal/platform/googlebooks"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DB.DSN)
	defer dbPool.Close()

	if cfg.DB.AutoMigrate {
		sqlDB := stdlib.OpenDBFromPool(dbPool)
		if err := db.Up(ctx, sqlDB); err != nil {
			log.Fatal().Err(err).Msg("auto migrate")
		}
		_ = sqlDB.Close()
		log.Info().Msg("migrations applied")
	}

	bookRepository := book.NewPostgresRepo(dbPool, cfg.DB.QueryTimeout)
	source := googlebooks.NewClient(googlebooks.Config{
		BaseURL:   cfg.GoogleBooks.BaseURL,
		APIKey:    cfg.GoogleBooks.APIKey,
		UserAgent: "bookshelf/" + apiVersion,
		RPS:       cfg.GoogleBooks.RPS,
		Timeout:   cfg.GoogleBooks.Timeout,
	})

	handler, stopLimiter := newRouter(routerDeps{
		cfg:      cfg.HTTP,
		books:    bookRepository,
		importer: ingest.NewService(source, bookRepository),
		db:       bookRepository,
	})
	defer stopLimiter()

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatal().Err(err).Str("dsn", config.RedactDSN(dsn)).Msg("cannot ping database")
	}
	log.Info().Str("dsn", config.RedactDSN(dsn)).Msg("database connection OK")
	return pool
}
