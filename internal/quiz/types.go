package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Status is the admin-controlled lifecycle state of a quiz.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
	StatusClosed  Status = "closed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusClosed:
		return true
	}
	return false
}

const defaultDurationMinutes = 120

// Quiz is an exam definition.
type Quiz struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	JoinCode        string    `json:"joinCode"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Duration is the time each participant gets once their exam starts.
func (q Quiz) Duration() time.Duration {
	return time.Duration(q.DurationMinutes) * time.Minute
}

// CreateRequest is the admin form for a new quiz.
type CreateRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
}
