package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// PGUUID converts a uuid into its pgtype form.
func PGUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// UUID converts a pgtype UUID back, returning uuid.Nil for NULL.
func UUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

// PGTime wraps t as a non-null timestamptz.
func PGTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// Time unwraps a timestamptz; the second result is false for NULL.
func Time(ts pgtype.Timestamptz) (time.Time, bool) {
	if !ts.Valid {
		return time.Time{}, false
	}
	return ts.Time, true
}

// PGText maps the empty string to NULL.
func PGText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// Text returns the string held by t, or "" for NULL.
func Text(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
