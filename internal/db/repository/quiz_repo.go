package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

type quizStore interface {
	CreateQuiz(ctx context.Context, arg sqlcgen.CreateQuizParams) (sqlcgen.Quiz, error)
	GetQuizByID(ctx context.Context, quizID pgtype.UUID) (sqlcgen.Quiz, error)
	GetQuizByJoinCode(ctx context.Context, joinCode string) (sqlcgen.Quiz, error)
	ListQuizzes(ctx context.Context) ([]sqlcgen.Quiz, error)
	UpdateQuizStatus(ctx context.Context, arg sqlcgen.UpdateQuizStatusParams) (sqlcgen.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID pgtype.UUID) (int64, error)
}

// QuizRepository contains DB helpers for quiz metadata.
type QuizRepository struct {
	store quizStore
}

// NewQuizRepository constructs a new quiz repository.
func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

// Create persists a new quiz in the waiting state.
func (r *QuizRepository) Create(ctx context.Context, params sqlcgen.CreateQuizParams) (sqlcgen.Quiz, error) {
	quiz, err := r.store.CreateQuiz(ctx, params)
	return quiz, translate(err)
}

func (r *QuizRepository) GetByID(ctx context.Context, quizID uuid.UUID) (sqlcgen.Quiz, error) {
	quiz, err := r.store.GetQuizByID(ctx, PGUUID(quizID))
	return quiz, translate(err)
}

func (r *QuizRepository) GetByJoinCode(ctx context.Context, code string) (sqlcgen.Quiz, error) {
	quiz, err := r.store.GetQuizByJoinCode(ctx, code)
	return quiz, translate(err)
}

// List returns all quizzes, newest first.
func (r *QuizRepository) List(ctx context.Context) ([]sqlcgen.Quiz, error) {
	quizzes, err := r.store.ListQuizzes(ctx)
	return quizzes, translate(err)
}

// UpdateStatus writes the status column and returns the updated row.
func (r *QuizRepository) UpdateStatus(ctx context.Context, quizID uuid.UUID, status string) (sqlcgen.Quiz, error) {
	quiz, err := r.store.UpdateQuizStatus(ctx, sqlcgen.UpdateQuizStatusParams{
		QuizID: PGUUID(quizID),
		Status: status,
	})
	return quiz, translate(err)
}

// Delete removes the quiz; questions and submissions cascade.
func (r *QuizRepository) Delete(ctx context.Context, quizID uuid.UUID) error {
	n, err := r.store.DeleteQuiz(ctx, PGUUID(quizID))
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
