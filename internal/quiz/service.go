package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

const maxJoinCodeAttempts = 5

type quizStore interface {
	Create(ctx context.Context, params sqlcgen.CreateQuizParams) (sqlcgen.Quiz, error)
	GetByID(ctx context.Context, quizID uuid.UUID) (sqlcgen.Quiz, error)
	GetByJoinCode(ctx context.Context, code string) (sqlcgen.Quiz, error)
	List(ctx context.Context) ([]sqlcgen.Quiz, error)
	UpdateStatus(ctx context.Context, quizID uuid.UUID, status string) (sqlcgen.Quiz, error)
	Delete(ctx context.Context, quizID uuid.UUID) error
}

var _ quizStore = (*repository.QuizRepository)(nil)

// Service is the quiz registry.
type Service struct {
	store    quizStore
	newCode  func() (string, error)
	onDelete []func(ctx context.Context, q Quiz)
	logger   zerolog.Logger
}

// NewService builds a quiz registry over store.
func NewService(store quizStore, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		newCode: GenerateJoinCode,
		logger:  logger.With().Str("component", "quiz").Logger(),
	}
}

// Create stores a waiting quiz under a fresh join code, retrying on code collisions.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Quiz, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Invalid("title", "title is required")
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	if duration < 0 {
		return nil, apperr.Invalid("durationMinutes", "durationMinutes must be positive")
	}

	for attempt := 1; attempt <= maxJoinCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate join code: %w", err)
		}
		row, err := s.store.Create(ctx, sqlcgen.CreateQuizParams{
			QuizID:          repository.PGUUID(uuid.New()),
			Title:           title,
			Description:     strings.TrimSpace(req.Description),
			DurationMinutes: int32(duration),
			JoinCode:        code,
		})
		if repository.IsDuplicateOf(err, repository.ConstraintQuizJoinCode) {
			s.logger.Debug().Str("code", code).Int("attempt", attempt).Msg("join code collision")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create quiz: %w", err)
		}
		q := toQuiz(row)
		s.logger.Info().Str("quiz_id", q.ID.String()).Str("join_code", q.JoinCode).Msg("quiz created")
		return &q, nil
	}
	return nil, fmt.Errorf("create quiz: no free join code after %d attempts", maxJoinCodeAttempts)
}

// List returns all quizzes, newest first.
func (s *Service) List(ctx context.Context) ([]Quiz, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]Quiz, 0, len(rows))
	for _, row := range rows {
		out = append(out, toQuiz(row))
	}
	return out, nil
}

// Get fetches a quiz by id.
func (s *Service) Get(ctx context.Context, quizID uuid.UUID) (*Quiz, error) {
	row, err := s.store.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	q := toQuiz(row)
	return &q, nil
}

// Resolve finds a quiz from either its join code or its id. An exact join
// code match wins; otherwise the value must parse as an id.
func (s *Service) Resolve(ctx context.Context, idOrCode string) (*Quiz, error) {
	if code, ok := NormalizeJoinCode(idOrCode); ok {
		row, err := s.store.GetByJoinCode(ctx, code)
		if err == nil {
			q := toQuiz(row)
			return &q, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get quiz by code: %w", err)
		}
	}

	quizID, err := uuid.Parse(strings.TrimSpace(idOrCode))
	if err != nil {
		return nil, apperr.NotFound("quiz not found")
	}
	return s.Get(ctx, quizID)
}

// SetStatus writes the status column without any side effects.
func (s *Service) SetStatus(ctx context.Context, quizID uuid.UUID, status Status) (*Quiz, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("status", "unknown quiz status")
	}
	row, err := s.store.UpdateStatus(ctx, quizID, string(status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, fmt.Errorf("update quiz status: %w", err)
	}
	q := toQuiz(row)
	return &q, nil
}

// OnDelete registers fn to run after a quiz is deleted. Read models keyed by
// the quiz id or join code use it to drop cached entries.
func (s *Service) OnDelete(fn func(ctx context.Context, q Quiz)) {
	s.onDelete = append(s.onDelete, fn)
}

// Delete removes a quiz together with its questions and submissions.
func (s *Service) Delete(ctx context.Context, quizID uuid.UUID) error {
	q, err := s.Get(ctx, quizID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, quizID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("quiz not found")
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	for _, fn := range s.onDelete {
		fn(ctx, *q)
	}
	s.logger.Info().Str("quiz_id", quizID.String()).Msg("quiz deleted")
	return nil
}

func toQuiz(row sqlcgen.Quiz) Quiz {
	created, _ := repository.Time(row.CreatedAt)
	return Quiz{
		ID:              repository.UUID(row.QuizID),
		Title:           row.Title,
		Description:     row.Description,
		DurationMinutes: int(row.DurationMinutes),
		JoinCode:        strings.TrimSpace(row.JoinCode),
		Status:          Status(row.Status),
		CreatedAt:       created,
	}
}
