package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

type questionStore interface {
	CreateQuestion(ctx context.Context, arg sqlcgen.CreateQuestionParams) (sqlcgen.Question, error)
	GetQuestionByID(ctx context.Context, questionID pgtype.UUID) (sqlcgen.Question, error)
	ListQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.Question, error)
	UpdateQuestion(ctx context.Context, arg sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, questionID pgtype.UUID) (pgtype.UUID, error)
}

// QuestionRepository persists the per-quiz question bank.
type QuestionRepository struct {
	store questionStore
}

// NewQuestionRepository wraps sqlc Queries for question operations.
func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) Create(ctx context.Context, params sqlcgen.CreateQuestionParams) (sqlcgen.Question, error) {
	q, err := r.store.CreateQuestion(ctx, params)
	return q, translate(err)
}

func (r *QuestionRepository) GetByID(ctx context.Context, questionID uuid.UUID) (sqlcgen.Question, error) {
	q, err := r.store.GetQuestionByID(ctx, PGUUID(questionID))
	return q, translate(err)
}

// ListByQuiz returns the quiz's questions ordered by question number.
func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]sqlcgen.Question, error) {
	qs, err := r.store.ListQuestionsByQuiz(ctx, PGUUID(quizID))
	return qs, translate(err)
}

func (r *QuestionRepository) Update(ctx context.Context, params sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error) {
	q, err := r.store.UpdateQuestion(ctx, params)
	return q, translate(err)
}

// Delete removes a question and reports the quiz it belonged to.
func (r *QuestionRepository) Delete(ctx context.Context, questionID uuid.UUID) (uuid.UUID, error) {
	quizID, err := r.store.DeleteQuestion(ctx, PGUUID(questionID))
	if err != nil {
		return uuid.Nil, translate(err)
	}
	return UUID(quizID), nil
}
