package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var (
	// ErrNotFound is returned when a lookup or targeted write matches no row.
	ErrNotFound  = errors.New("record not found")
	// ErrDuplicate is matched by every *DuplicateError.
	ErrDuplicate = errors.New("duplicate record")
)

// DuplicateError reports which unique constraint rejected a write.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return "duplicate key violates " + e.Constraint
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// IsDuplicateOf reports whether err was raised by the named unique constraint.
func IsDuplicateOf(err error, constraint string) bool {
	var dup *DuplicateError
	return errors.As(err, &dup) && dup.Constraint == constraint
}

// translate maps driver errors onto repository sentinels and passes everything else through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &DuplicateError{Constraint: pgErr.ConstraintName}
	}
	return err
}

// Unique constraint names from db/migrations.
const (
	ConstraintUserEmail       = "users_email_key"
	ConstraintUserTeamName    = "users_team_name_key"
	ConstraintQuizJoinCode    = "quizzes_join_code_key"
	ConstraintQuestionNumber  = "questions_quiz_number_key"
	ConstraintQuizParticipant = "submissions_quiz_participant_key"
)
