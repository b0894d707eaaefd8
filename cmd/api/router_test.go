package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/ingest"
	"bookshelf/internal/platform/googlebooks"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testRouter(t *testing.T, repo book.Repository, db pinger) http.Handler {
	h, stop := newRouter(routerDeps{
		cfg: config.HTTPConfig{
			RateLimitRPS:   100,
			RateLimitBurst: 100,
			CORSOrigins:    []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		books:    repo,
		importer: ingest.NewService(googlebooks.NewClient(googlebooks.Config{BaseURL: "http://127.0.0.1:0"}), repo),
		db:       db,
	})
	t.Cleanup(stop)
	return h
}

func TestRouter_APISpec(t *testing.T) {
	h := testRouter(t, book.NewMockRepository(gomock.NewController(t)), fakePinger{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api_spec", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"info":{"version":"2022.05.16"}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_BooksRouteIsMounted(t *testing.T) {
	repo := book.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().ListAll(gomock.Any()).Return([]book.Book{}, nil)
	h := testRouter(t, repo, fakePinger{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"info":"no data"}`, w.Body.String())
}

func TestRouter_Probes(t *testing.T) {
	repo := book.NewMockRepository(gomock.NewController(t))

	t.Run("healthz", func(t *testing.T) {
		w := httptest.NewRecorder()
		testRouter(t, repo, fakePinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readyz ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		testRouter(t, repo, fakePinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readyz db down", func(t *testing.T) {
		w := httptest.NewRecorder()
		testRouter(t, repo, fakePinger{err: errors.New("down")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	h := testRouter(t, book.NewMockRepository(gomock.NewController(t)), fakePinger{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := testRouter(t, book.NewMockRepository(gomock.NewController(t)), fakePinger{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
