package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

type questionStore interface {
	Create(ctx context.Context, params sqlcgen.CreateQuestionParams) (sqlcgen.Question, error)
	GetByID(ctx context.Context, questionID uuid.UUID) (sqlcgen.Question, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]sqlcgen.Question, error)
	Update(ctx context.Context, params sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error)
	Delete(ctx context.Context, questionID uuid.UUID) (uuid.UUID, error)
}

var _ questionStore = (*repository.QuestionRepository)(nil)

type quizGetter interface {
	Get(ctx context.Context, quizID uuid.UUID) (*quiz.Quiz, error)
}

// Service manages the question bank and serves cached answer keys.
type Service struct {
	store   questionStore
	quizzes quizGetter
	cache   KeyCache
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewService wires the question bank. cache may be nil.
func NewService(store questionStore, quizzes quizGetter, cache KeyCache, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		quizzes: quizzes,
		cache:   cache,
		logger:  logger.With().Str("component", "question").Logger(),
	}
}

// Create adds a question to an existing quiz.
func (s *Service) Create(ctx context.Context, quizID uuid.UUID, req Request) (*Question, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return nil, err
	}
	req, err := validate(req)
	if err != nil {
		return nil, err
	}
	opts, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	row, err := s.store.Create(ctx, sqlcgen.CreateQuestionParams{
		QuestionID:      repository.PGUUID(uuid.New()),
		QuizID:          repository.PGUUID(quizID),
		QuestionNumber:  int32(req.Number),
		QuestionText:    req.Text,
		ImageUrl:        repository.PGText(req.ImageURL),
		TableData:       repository.PGText(req.TableData),
		Options:         opts,
		CorrectOptionID: req.CorrectOptionID,
	})
	if err != nil {
		if repository.IsDuplicateOf(err, repository.ConstraintQuestionNumber) {
			return nil, apperr.Conflict("question number already used in this quiz")
		}
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.invalidate(ctx, quizID)

	q, err := toQuestion(row)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Update replaces every field of a question.
func (s *Service) Update(ctx context.Context, questionID uuid.UUID, req Request) (*Question, error) {
	req, err := validate(req)
	if err != nil {
		return nil, err
	}
	opts, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}

	row, err := s.store.Update(ctx, sqlcgen.UpdateQuestionParams{
		QuestionID:      repository.PGUUID(questionID),
		QuestionNumber:  int32(req.Number),
		QuestionText:    req.Text,
		ImageUrl:        repository.PGText(req.ImageURL),
		TableData:       repository.PGText(req.TableData),
		Options:         opts,
		CorrectOptionID: req.CorrectOptionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("question not found")
		case repository.IsDuplicateOf(err, repository.ConstraintQuestionNumber):
			return nil, apperr.Conflict("question number already used in this quiz")
		}
		return nil, fmt.Errorf("update question: %w", err)
	}

	q, err := toQuestion(row)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, q.QuizID)
	return &q, nil
}

// Delete removes a question.
func (s *Service) Delete(ctx context.Context, questionID uuid.UUID) error {
	quizID, err := s.store.Delete(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("question not found")
		}
		return fmt.Errorf("delete question: %w", err)
	}
	s.invalidate(ctx, quizID)
	return nil
}

// List returns the full questions of a quiz, ordered by number.
func (s *Service) List(ctx context.Context, quizID uuid.UUID) ([]Question, error) {
	rows, err := s.store.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		q, err := toQuestion(row)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// ListPublic returns the quiz's questions without correct answers.
func (s *Service) ListPublic(ctx context.Context, quizID uuid.UUID) ([]PublicQuestion, error) {
	qs, err := s.List(ctx, quizID)
	if err != nil {
		return nil, err
	}
	out := make([]PublicQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Public())
	}
	return out, nil
}

// AnswerKey returns the quiz's answer key, from cache when possible. Concurrent
// misses for the same quiz share one database load.
func (s *Service) AnswerKey(ctx context.Context, quizID uuid.UUID) (AnswerKey, error) {
	if s.cache != nil {
		key, err := s.cache.Get(ctx, quizID)
		if err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("answer key cache read failed")
		} else if key != nil {
			return key, nil
		}
	}

	v, err, _ := s.group.Do(quizID.String(), func() (interface{}, error) {
		qs, err := s.List(ctx, quizID)
		if err != nil {
			return nil, err
		}
		key := make(AnswerKey, len(qs))
		for _, q := range qs {
			ids := make([]string, 0, len(q.Options))
			for _, o := range q.Options {
				ids = append(ids, o.ID)
			}
			key[q.ID.String()] = KeyEntry{Correct: q.CorrectOptionID, Options: ids}
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, quizID, key); err != nil {
				s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("answer key cache write failed")
			}
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(AnswerKey), nil
}

func (s *Service) invalidate(ctx context.Context, quizID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("answer key cache invalidation failed")
	}
}

func validate(req Request) (Request, error) {
	req.Text = strings.TrimSpace(req.Text)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.CorrectOptionID = strings.TrimSpace(req.CorrectOptionID)

	if req.Number <= 0 {
		return req, apperr.Invalid("questionNumber", "questionNumber must be positive")
	}
	if req.Text == "" {
		return req, apperr.Invalid("questionText", "questionText is required")
	}
	if len(req.Options) < 2 {
		return req, apperr.Invalid("options", "at least two options are required")
	}

	seen := make(map[string]bool, len(req.Options))
	for i := range req.Options {
		req.Options[i].ID = strings.TrimSpace(req.Options[i].ID)
		req.Options[i].Text = strings.TrimSpace(req.Options[i].Text)
		id := req.Options[i].ID
		if id == "" || req.Options[i].Text == "" {
			return req, apperr.Invalid("options", "every option needs an id and text")
		}
		if seen[id] {
			return req, apperr.Invalid("options", "option ids must be unique")
		}
		seen[id] = true
	}
	if !seen[req.CorrectOptionID] {
		return req, apperr.Invalid("correctOptionId", "correctOptionId must match one of the options")
	}
	return req, nil
}

func toQuestion(row sqlcgen.Question) (Question, error) {
	var opts []Option
	if len(row.Options) > 0 {
		if err := json.Unmarshal(row.Options, &opts); err != nil {
			return Question{}, fmt.Errorf("decode options of question %s: %w", repository.UUID(row.QuestionID), err)
		}
	}
	return Question{
		ID:              repository.UUID(row.QuestionID),
		QuizID:          repository.UUID(row.QuizID),
		Number:          int(row.QuestionNumber),
		Text:            row.QuestionText,
		ImageURL:        repository.Text(row.ImageUrl),
		TableData:       repository.Text(row.TableData),
		Options:         opts,
		CorrectOptionID: row.CorrectOptionID,
	}, nil
}
