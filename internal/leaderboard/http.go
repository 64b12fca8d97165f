package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/logging"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
	httperrors "github.com/gokatarajesh/cbt-platform/pkg/http/errors"
)

type quizResolver interface {
	Resolve(ctx context.Context, idOrCode string) (*quiz.Quiz, error)
}

// HTTPHandler exposes leaderboard queries.
type HTTPHandler struct {
	svc     *Service
	quizzes quizResolver
	logger  zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, quizzes quizResolver, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:     svc,
		quizzes: quizzes,
		logger:  logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds with the ranking of a quiz.
// Route: GET /exam/leaderboard/{quizIdOrCode}?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q, err := h.quizzes.Resolve(r.Context(), chi.URLParam(r, "quizIdOrCode"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entries, err := h.svc.Top(r.Context(), q.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < len(entries) {
			entries = entries[:parsed]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"quizId":  q.ID,
		"title":   q.Title,
		"status":  q.Status,
		"entries": entries,
	}); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode leaderboard")
	}
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := httperrors.RespondAppError(w, err); status >= http.StatusInternalServerError {
		l := logging.FromContext(r.Context())
		l.Error().Err(err).Msg("leaderboard request failed")
	}
}
