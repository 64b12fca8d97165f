package exam

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/cbt-platform/internal/question"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

// SubmissionStatus moves forward only: pending, active, completed.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusActive    SubmissionStatus = "active"
	StatusCompleted SubmissionStatus = "completed"
)

// Answers maps question id to the chosen option id.
type Answers map[string]string

// Submission is one participant's attempt at one quiz.
type Submission struct {
	ID             uuid.UUID        `json:"id"`
	QuizID         uuid.UUID        `json:"quizId"`
	ParticipantID  uuid.UUID        `json:"participantId"`
	Status         SubmissionStatus `json:"status"`
	StartTime      time.Time        `json:"startTime"`
	EndTime        time.Time        `json:"endTime"`
	Answers        Answers          `json:"answers"`
	SubmittedAt    *time.Time       `json:"submittedAt,omitempty"`
	Score          int              `json:"score"`
	DurationMs     int64            `json:"durationMs"`
	ViolationCount int              `json:"violationCount"`
}

// StartResult is returned when a participant enters or resumes an exam.
type StartResult struct {
	Submission *Submission               `json:"submission"`
	Questions  []question.PublicQuestion `json:"questions"`
	ServerTime time.Time                 `json:"serverTime"`
}

// StatusView is the cheap polling payload for lobby and in-exam clients.
type StatusView struct {
	QuizID           uuid.UUID   `json:"quizId"`
	Title            string      `json:"title"`
	Status           quiz.Status `json:"status"`
	DurationMinutes  int         `json:"durationMinutes"`
	ParticipantCount int64       `json:"participantCount"`
}

// SubmitResult reports the finalized submission.
type SubmitResult struct {
	Submission       *Submission `json:"submission"`
	AlreadyCompleted bool        `json:"alreadyCompleted"`
	LateCorrection   bool        `json:"lateCorrection,omitempty"`
}

// SweepResult summarizes an auto-submit-all run.
type SweepResult struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// ResetResult summarizes a destructive quiz reset.
type ResetResult struct {
	Quiz    *quiz.Quiz `json:"quiz"`
	Deleted int64      `json:"deletedSubmissions"`
}
