package exam

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
	"github.com/gokatarajesh/cbt-platform/internal/question"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

// memorySubmissions mimics the Postgres queries, including the unique
// (quiz, participant) constraint and the status guards in the WHERE clauses.
type memorySubmissions struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]sqlcgen.Submission
	order   []uuid.UUID
	updates int
}

func newMemorySubmissions() *memorySubmissions {
	return &memorySubmissions{rows: map[uuid.UUID]sqlcgen.Submission{}}
}

func (m *memorySubmissions) Create(_ context.Context, p sqlcgen.CreateSubmissionParams) (sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.QuizID == p.QuizID && r.ParticipantID == p.ParticipantID {
			return sqlcgen.Submission{}, &repository.DuplicateError{Constraint: repository.ConstraintQuizParticipant}
		}
	}
	row := sqlcgen.Submission{
		SubmissionID:  p.SubmissionID,
		QuizID:        p.QuizID,
		ParticipantID: p.ParticipantID,
		Status:        p.Status,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		Answers:       []byte("{}"),
	}
	id := repository.UUID(p.SubmissionID)
	m.rows[id] = row
	m.order = append(m.order, id)
	return row, nil
}

func (m *memorySubmissions) GetByID(_ context.Context, id uuid.UUID) (sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return sqlcgen.Submission{}, repository.ErrNotFound
	}
	return row, nil
}

func (m *memorySubmissions) GetByQuizAndParticipant(_ context.Context, quizID, participantID uuid.UUID) (sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if repository.UUID(r.QuizID) == quizID && repository.UUID(r.ParticipantID) == participantID {
			return r, nil
		}
	}
	return sqlcgen.Submission{}, repository.ErrNotFound
}

func (m *memorySubmissions) Activate(_ context.Context, p sqlcgen.ActivateSubmissionParams) (sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := repository.UUID(p.SubmissionID)
	row, ok := m.rows[id]
	if !ok || row.Status != string(StatusPending) {
		return sqlcgen.Submission{}, repository.ErrNotFound
	}
	row.Status = string(StatusActive)
	row.StartTime = p.StartTime
	row.EndTime = p.EndTime
	m.rows[id] = row
	return row, nil
}

func (m *memorySubmissions) UpdateAnswers(_ context.Context, id uuid.UUID, answers []byte) (sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != string(StatusActive) {
		return sqlcgen.Submission{}, repository.ErrNotFound
	}
	row.Answers = answers
	m.rows[id] = row
	m.updates++
	return row, nil
}

func (m *memorySubmissions) Complete(_ context.Context, p sqlcgen.CompleteSubmissionParams) (sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := repository.UUID(p.SubmissionID)
	row, ok := m.rows[id]
	if !ok || (row.Status == string(StatusCompleted) && string(row.Answers) != "{}") {
		return sqlcgen.Submission{}, repository.ErrNotFound
	}
	row.Status = string(StatusCompleted)
	row.Answers = p.Answers
	row.Score = p.Score
	row.DurationMs = p.DurationMs
	row.SubmittedAt = p.SubmittedAt
	m.rows[id] = row
	return row, nil
}

func (m *memorySubmissions) IncrementViolations(_ context.Context, id uuid.UUID) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != string(StatusActive) {
		return 0, repository.ErrNotFound
	}
	row.ViolationCount++
	m.rows[id] = row
	return row.ViolationCount, nil
}

func (m *memorySubmissions) ListOpen(_ context.Context, quizID uuid.UUID) ([]sqlcgen.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sqlcgen.Submission
	for _, id := range m.order {
		r, ok := m.rows[id]
		if ok && repository.UUID(r.QuizID) == quizID && r.Status != string(StatusCompleted) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memorySubmissions) CountParticipants(_ context.Context, quizID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[[16]byte]bool{}
	for _, r := range m.rows {
		if repository.UUID(r.QuizID) == quizID {
			seen[r.ParticipantID.Bytes] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *memorySubmissions) DeleteByQuiz(_ context.Context, quizID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.rows {
		if repository.UUID(r.QuizID) == quizID {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memorySubmissions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memorySubmissions) row(id uuid.UUID) sqlcgen.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type memoryQuizzes struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]quiz.Quiz
}

func (m *memoryQuizzes) Resolve(_ context.Context, ref string) (*quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.quizzes {
		if strings.EqualFold(q.JoinCode, ref) || q.ID.String() == ref {
			q := q
			return &q, nil
		}
	}
	return nil, apperr.NotFound("quiz not found")
}

func (m *memoryQuizzes) Get(ctx context.Context, id uuid.UUID) (*quiz.Quiz, error) {
	return m.Resolve(ctx, id.String())
}

func (m *memoryQuizzes) SetStatus(_ context.Context, id uuid.UUID, status quiz.Status) (*quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return nil, apperr.NotFound("quiz not found")
	}
	q.Status = status
	m.quizzes[id] = q
	return &q, nil
}

type fixedQuestions struct {
	key       question.AnswerKey
	questions []question.PublicQuestion
}

func (f fixedQuestions) ListPublic(context.Context, uuid.UUID) ([]question.PublicQuestion, error) {
	return f.questions, nil
}

func (f fixedQuestions) AnswerKey(context.Context, uuid.UUID) (question.AnswerKey, error) {
	return f.key, nil
}

type countingLeaderboard struct {
	mu    sync.Mutex
	calls int
}

func (c *countingLeaderboard) Invalidate(context.Context, uuid.UUID) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

const (
	q1 = "11111111-1111-1111-1111-111111111111"
	q2 = "22222222-2222-2222-2222-222222222222"
	q3 = "33333333-3333-3333-3333-333333333333"
)

type fixture struct {
	svc         *Service
	store       *memorySubmissions
	quizzes     *memoryQuizzes
	leaderboard *countingLeaderboard
	clock       *fakeClock
	quiz        quiz.Quiz
}

func threeQuestionBank() fixedQuestions {
	opts := []string{"A", "B", "C", "D"}
	key := question.AnswerKey{
		q1: {Correct: "A", Options: opts},
		q2: {Correct: "B", Options: opts},
		q3: {Correct: "C", Options: opts},
	}
	var pub []question.PublicQuestion
	for i, id := range []string{q1, q2, q3} {
		pub = append(pub, question.PublicQuestion{ID: uuid.MustParse(id), Number: i + 1, Text: "Q"})
	}
	sort.Slice(pub, func(i, j int) bool { return pub[i].Number < pub[j].Number })
	return fixedQuestions{key: key, questions: pub}
}

func newFixture(t *testing.T, status quiz.Status, cache StatusCache) *fixture {
	t.Helper()
	q := quiz.Quiz{
		ID:              uuid.New(),
		Title:           "Olympiad",
		DurationMinutes: 60,
		JoinCode:        "A1B2C3",
		Status:          status,
	}
	quizzes := &memoryQuizzes{quizzes: map[uuid.UUID]quiz.Quiz{q.ID: q}}
	store := newMemorySubmissions()
	lb := &countingLeaderboard{}
	clock := &fakeClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}

	svc := NewService(store, quizzes, threeQuestionBank(), lb, cache, zerolog.New(io.Discard), ServiceOptions{
		SubmitTolerance: 5 * time.Second,
	})
	svc.now = clock.Now
	return &fixture{svc: svc, store: store, quizzes: quizzes, leaderboard: lb, clock: clock, quiz: q}
}

func (f *fixture) setQuizStatus(t *testing.T, status quiz.Status) {
	t.Helper()
	if _, err := f.quizzes.SetStatus(context.Background(), f.quiz.ID, status); err != nil {
		t.Fatal(err)
	}
}
