package exam

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/auth"
	"github.com/gokatarajesh/cbt-platform/internal/auth/jwt"
	"github.com/gokatarajesh/cbt-platform/internal/logging"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
	httperrors "github.com/gokatarajesh/cbt-platform/pkg/http/errors"
)

// HTTPHandler exposes the exam session endpoints. Every route expects
// auth.Authenticate to have run.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs exam REST handlers.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "exam_http").Logger(),
	}
}

type answersPayload struct {
	Answers Answers `json:"answers"`
}

type statusPayload struct {
	Status quiz.Status `json:"status"`
}

// Join handles POST /exam/join/{quizIdOrCode}
func (h *HTTPHandler) Join(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.JoinLobby(r.Context(), chi.URLParam(r, "quizIdOrCode"), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"submission": sub})
}

// Status handles GET /exam/status/{quizIdOrCode}
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CheckStatus(r.Context(), chi.URLParam(r, "quizIdOrCode"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// Start handles POST /exam/start/{quizIdOrCode}
func (h *HTTPHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	res, err := h.svc.StartOrResume(r.Context(), chi.URLParam(r, "quizIdOrCode"), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

// SaveAnswers handles PUT /exam/save-answers/{submissionId}
func (h *HTTPHandler) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodeAnswers(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.SaveAnswers(r.Context(), submissionID, claims.UserID, claims.IsAdmin(), payload.Answers)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"submission": sub})
}

// Submit handles POST /exam/submit/{submissionId}
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodeAnswers(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Submit(r.Context(), submissionID, claims.UserID, claims.IsAdmin(), payload.Answers)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

// Violation handles POST /exam/violation/{submissionId}
func (h *HTTPHandler) Violation(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	submissionID, ok := h.submissionID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.RecordViolation(r.Context(), submissionID, claims.UserID, claims.IsAdmin())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int{"violationCount": n})
}

// SetQuizStatus handles PUT /quizzes/{id}/status (admin)
func (h *HTTPHandler) SetQuizStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	q, sweep, err := h.svc.AdminSetStatus(r.Context(), quizID, payload.Status, claims.IsAdmin())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := map[string]interface{}{"quiz": q}
	if sweep != nil {
		resp["autoSubmitted"] = sweep.Completed
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// ResetQuiz handles PUT /quizzes/{id}/reset (admin)
func (h *HTTPHandler) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	quizID, ok := h.quizID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.ResetQuiz(r.Context(), quizID, claims.IsAdmin())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *HTTPHandler) claims(w http.ResponseWriter, r *http.Request) (*jwt.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return nil, false
	}
	return claims, true
}

func (h *HTTPHandler) submissionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "submissionId"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "submission not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandler) quizID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return uuid.Nil, false
	}
	return id, true
}

// decodeAnswers accepts an empty body as "no answers".
func (h *HTTPHandler) decodeAnswers(w http.ResponseWriter, r *http.Request) (answersPayload, bool) {
	var payload answersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "answers must map question ids to option ids", "answers")
		return payload, false
	}
	return payload, true
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httperrors.RespondAppError(w, err); status >= http.StatusInternalServerError {
		l := logging.FromContext(r.Context())
		l.Error().Err(err).Msg("exam request failed")
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
