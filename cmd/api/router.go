package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/ingest"
)

const apiVersion = "2022.05.16"

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	cfg      config.HTTPConfig
	books    book.Repository
	importer *ingest.Service
	db       pinger
}

// newRouter wires the middleware chain and every route. The returned stop
// function releases the rate limiter's sweeper goroutine.
func newRouter(d routerDeps) (http.Handler, func()) {
	limiter := httpx.NewRateLimitMiddleware(d.cfg.RateLimitRPS, d.cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware)
	r.Use(httpx.CORSMiddleware(d.cfg.CORSOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/api_spec", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, httpx.InfoResponse{Info: map[string]string{"version": apiVersion}})
		})
		book.NewHTTPHandler(book.NewService(d.books)).Register(r)
		ingest.NewHTTPHandler(d.importer).Register(r)
	})

	return r, limiter.Stop
}
