package question

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/logging"
	httperrors "github.com/gokatarajesh/cbt-platform/pkg/http/errors"
)

// HTTPHandler exposes admin question management.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

type createRequest struct {
	QuizID string `json:"quizId"`
	Request
}

// Create handles POST /questions
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	quizID, err := uuid.Parse(strings.TrimSpace(req.QuizID))
	if err != nil {
		h.fail(w, r, apperr.Invalid("quizId", "quizId must be a quiz id"))
		return
	}
	q, err := h.svc.Create(r.Context(), quizID, req.Request)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, q)
}

// List handles GET /questions/{id}, where id is the quiz.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.parseID(w, r, "id", "quiz not found")
	if !ok {
		return
	}
	qs, err := h.svc.List(r.Context(), quizID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, qs)
}

// Update handles PUT /questions/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	questionID, ok := h.parseID(w, r, "id", "question not found")
	if !ok {
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	q, err := h.svc.Update(r.Context(), questionID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

// Delete handles DELETE /questions/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	questionID, ok := h.parseID(w, r, "id", "question not found")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), questionID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "question deleted"})
}

func (h *HTTPHandler) parseID(w http.ResponseWriter, r *http.Request, param, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httperrors.RespondAppError(w, err); status >= http.StatusInternalServerError {
		l := logging.FromContext(r.Context())
		l.Error().Err(err).Msg("question request failed")
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
