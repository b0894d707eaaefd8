package book

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/httpx"
)

const infoNoData = "no data"

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes on r.
func (h *HTTPHandler) Register(r chi.Router) {
	r.Get("/books", h.List)
	r.Post("/books", h.Create)
	r.Get("/books/{id}", h.Get)
	r.Patch("/books/{id}", h.Update)
	r.Delete("/books/{id}", h.Delete)
}

type createRequest struct {
	ExternalID    *string  `json:"external_id"`
	ExtID         *string  `json:"ext_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Acquired      *bool    `json:"acquired"`
	PublishedYear *int     `json:"published_year"`
	Thumbnail     *string  `json:"thumbnail"`
}

type patchRequest struct {
	ExternalID    *string  `json:"external_id"`
	Title         *string  `json:"title"`
	Authors       []string `json:"authors"`
	Acquired      *bool    `json:"acquired"`
	PublishedYear *int     `json:"published_year"`
	Thumbnail     *string  `json:"thumbnail"`
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	books, err := h.service.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(books) == 0 {
		httpx.Info(w, http.StatusOK, infoNoData)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		httpx.Info(w, http.StatusNotFound, infoNoData)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.Info(w, http.StatusBadRequest, "invalid body")
		return
	}

	externalID := req.ExternalID
	if externalID == nil {
		externalID = req.ExtID
	}

	b, err := h.service.Create(r.Context(), NewBook{
		ExternalID:    externalID,
		Title:         req.Title,
		Authors:       req.Authors,
		Acquired:      req.Acquired,
		PublishedYear: req.PublishedYear,
		Thumbnail:     req.Thumbnail,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PATCH /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		httpx.Info(w, http.StatusNotFound, infoNoData)
		return
	}

	var req patchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.Info(w, http.StatusBadRequest, "invalid body")
		return
	}

	b, err := h.service.Update(r.Context(), id, Patch{
		ExternalID:    req.ExternalID,
		Title:         req.Title,
		Authors:       req.Authors,
		Acquired:      req.Acquired,
		PublishedYear: req.PublishedYear,
		Thumbnail:     req.Thumbnail,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		httpx.Info(w, http.StatusNotFound, infoNoData)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		httpx.Info(w, http.StatusNotFound, infoNoData)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"delete": true})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Info(w, http.StatusNotFound, infoNoData)
	case errors.As(err, &verr):
		httpx.Info(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrInvalidFilter):
		httpx.Info(w, http.StatusBadRequest, "invalid filter")
	default:
		log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("book request failed")
		httpx.Info(w, http.StatusInternalServerError, "server error")
	}
}

func bookID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
