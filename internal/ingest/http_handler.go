package ingest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"bookshelf/internal/httpx"
)

var validate = validator.New()

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) Register(r chi.Router) {
	r.Post("/import", h.Import)
}

type importRequest struct {
	Author string `json:"author" validate:"required"`
}

// Import handles POST /import
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		importFailed(w, http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		importFailed(w, http.StatusBadRequest)
		return
	}

	res, err := h.svc.Import(r.Context(), req.Author)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoAuthor):
			importFailed(w, http.StatusBadRequest)
		case errors.Is(err, ErrSourceUnavailable):
			importFailed(w, http.StatusBadGateway)
		default:
			log.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("import failed")
			importFailed(w, http.StatusInternalServerError)
		}
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]int{"imported": res.Processed})
}

func importFailed(w http.ResponseWriter, status int) {
	httpx.JSON(w, status, map[string]bool{"import": false})
}
