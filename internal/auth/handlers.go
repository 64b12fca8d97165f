package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/logging"
	httperrors "github.com/gokatarajesh/cbt-platform/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for authentication and participant admin.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc: authSvc,
		logger:  logger.With().Str("component", "auth_http").Logger(),
	}
}

// Register handles POST /auth/register
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, token, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":      user,
		"token":     token.AccessToken,
		"expiresIn": token.ExpiresIn,
	})
}

// Login handles POST /auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, token, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"token":     token.AccessToken,
		"expiresIn": token.ExpiresIn,
	})
}

// Me handles GET /auth/me
func (h *HTTPHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	user, err := h.authSvc.Profile(r.Context(), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /users (admin)
func (h *HTTPHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListParticipants(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /users/{id} (admin)
func (h *HTTPHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "user not found")
		return
	}

	if err := h.authSvc.DeleteParticipant(r.Context(), userID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *HTTPHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httperrors.RespondAppError(w, err); status >= http.StatusInternalServerError {
		l := logging.FromContext(r.Context())
		l.Error().Err(err).Msg("auth request failed")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
