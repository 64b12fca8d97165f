package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

type submissionStore interface {
	CreateSubmission(ctx context.Context, arg sqlcgen.CreateSubmissionParams) (sqlcgen.Submission, error)
	GetSubmissionByID(ctx context.Context, submissionID pgtype.UUID) (sqlcgen.Submission, error)
	GetSubmissionByQuizAndParticipant(ctx context.Context, arg sqlcgen.GetSubmissionByQuizAndParticipantParams) (sqlcgen.Submission, error)
	ActivateSubmission(ctx context.Context, arg sqlcgen.ActivateSubmissionParams) (sqlcgen.Submission, error)
	UpdateSubmissionAnswers(ctx context.Context, arg sqlcgen.UpdateSubmissionAnswersParams) (sqlcgen.Submission, error)
	CompleteSubmission(ctx context.Context, arg sqlcgen.CompleteSubmissionParams) (sqlcgen.Submission, error)
	IncrementViolationCount(ctx context.Context, submissionID pgtype.UUID) (int32, error)
	ListOpenSubmissionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.Submission, error)
	CountParticipantsByQuiz(ctx context.Context, quizID pgtype.UUID) (int64, error)
	DeleteSubmissionsByQuiz(ctx context.Context, quizID pgtype.UUID) (int64, error)
	ListLeaderboard(ctx context.Context, arg sqlcgen.ListLeaderboardParams) ([]sqlcgen.ListLeaderboardRow, error)
}

// SubmissionRepository is the submission ledger: one row per (quiz, participant).
type SubmissionRepository struct {
	store submissionStore
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(store submissionStore) *SubmissionRepository {
	return &SubmissionRepository{store: store}
}

// Create inserts the participant's first submission. A concurrent insert for
// the same (quiz, participant) fails with a *DuplicateError on
// ConstraintQuizParticipant.
func (r *SubmissionRepository) Create(ctx context.Context, params sqlcgen.CreateSubmissionParams) (sqlcgen.Submission, error) {
	sub, err := r.store.CreateSubmission(ctx, params)
	return sub, translate(err)
}

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID uuid.UUID) (sqlcgen.Submission, error) {
	sub, err := r.store.GetSubmissionByID(ctx, PGUUID(submissionID))
	return sub, translate(err)
}

func (r *SubmissionRepository) GetByQuizAndParticipant(ctx context.Context, quizID, participantID uuid.UUID) (sqlcgen.Submission, error) {
	sub, err := r.store.GetSubmissionByQuizAndParticipant(ctx, sqlcgen.GetSubmissionByQuizAndParticipantParams{
		QuizID:        PGUUID(quizID),
		ParticipantID: PGUUID(participantID),
	})
	return sub, translate(err)
}

// Activate moves a pending submission to active. ErrNotFound means the row
// was no longer pending.
func (r *SubmissionRepository) Activate(ctx context.Context, params sqlcgen.ActivateSubmissionParams) (sqlcgen.Submission, error) {
	sub, err := r.store.ActivateSubmission(ctx, params)
	return sub, translate(err)
}

// UpdateAnswers replaces the stored answers of an active submission.
// ErrNotFound means the row was no longer active.
func (r *SubmissionRepository) UpdateAnswers(ctx context.Context, submissionID uuid.UUID, answers []byte) (sqlcgen.Submission, error) {
	sub, err := r.store.UpdateSubmissionAnswers(ctx, sqlcgen.UpdateSubmissionAnswersParams{
		SubmissionID: PGUUID(submissionID),
		Answers:      answers,
	})
	return sub, translate(err)
}

// Complete finalizes the submission with its computed score. A row that is
// already completed with stored answers is left alone and reported as ErrNotFound.
func (r *SubmissionRepository) Complete(ctx context.Context, params sqlcgen.CompleteSubmissionParams) (sqlcgen.Submission, error) {
	sub, err := r.store.CompleteSubmission(ctx, params)
	return sub, translate(err)
}

// IncrementViolations bumps the violation counter of an active submission.
func (r *SubmissionRepository) IncrementViolations(ctx context.Context, submissionID uuid.UUID) (int32, error) {
	n, err := r.store.IncrementViolationCount(ctx, PGUUID(submissionID))
	return n, translate(err)
}

// ListOpen returns pending and active submissions of a quiz.
func (r *SubmissionRepository) ListOpen(ctx context.Context, quizID uuid.UUID) ([]sqlcgen.Submission, error) {
	subs, err := r.store.ListOpenSubmissionsByQuiz(ctx, PGUUID(quizID))
	return subs, translate(err)
}

// CountParticipants counts distinct participants holding a submission for the quiz.
func (r *SubmissionRepository) CountParticipants(ctx context.Context, quizID uuid.UUID) (int64, error) {
	n, err := r.store.CountParticipantsByQuiz(ctx, PGUUID(quizID))
	return n, translate(err)
}

// DeleteByQuiz wipes every submission of the quiz and returns how many were removed.
func (r *SubmissionRepository) DeleteByQuiz(ctx context.Context, quizID uuid.UUID) (int64, error) {
	n, err := r.store.DeleteSubmissionsByQuiz(ctx, PGUUID(quizID))
	return n, translate(err)
}

// Leaderboard returns completed submissions joined with team details, best first.
func (r *SubmissionRepository) Leaderboard(ctx context.Context, quizID uuid.UUID, limit int) ([]sqlcgen.ListLeaderboardRow, error) {
	rows, err := r.store.ListLeaderboard(ctx, sqlcgen.ListLeaderboardParams{
		QuizID: PGUUID(quizID),
		Limit:  int32(limit),
	})
	return rows, translate(err)
}
