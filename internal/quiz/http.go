package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/logging"
	httperrors "github.com/gokatarajesh/cbt-platform/pkg/http/errors"
)

// HTTPHandler exposes the admin quiz registry over REST.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs quiz REST handlers.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "quiz_http").Logger(),
	}
}

// Create handles POST /quizzes
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	q, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, q)
}

// List handles GET /quizzes
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /quizzes/{id}; the id may also be a join code.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

// Delete handles DELETE /quizzes/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return
	}
	if err := h.svc.Delete(r.Context(), quizID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "quiz deleted"})
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httperrors.RespondAppError(w, err); status >= http.StatusInternalServerError {
		l := logging.FromContext(r.Context())
		l.Error().Err(err).Msg("quiz request failed")
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
