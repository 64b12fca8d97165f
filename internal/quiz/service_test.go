package quiz

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

type memoryStore struct {
	byID      map[uuid.UUID]sqlcgen.Quiz
	createErr []error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byID: map[uuid.UUID]sqlcgen.Quiz{}}
}

func (m *memoryStore) Create(_ context.Context, p sqlcgen.CreateQuizParams) (sqlcgen.Quiz, error) {
	if len(m.createErr) > 0 {
		err := m.createErr[0]
		m.createErr = m.createErr[1:]
		if err != nil {
			return sqlcgen.Quiz{}, err
		}
	}
	for _, q := range m.byID {
		if q.JoinCode == p.JoinCode {
			return sqlcgen.Quiz{}, &repository.DuplicateError{Constraint: repository.ConstraintQuizJoinCode}
		}
	}
	row := sqlcgen.Quiz{
		QuizID:          p.QuizID,
		Title:           p.Title,
		Description:     p.Description,
		DurationMinutes: p.DurationMinutes,
		JoinCode:        p.JoinCode,
		Status:          string(StatusWaiting),
	}
	m.byID[repository.UUID(p.QuizID)] = row
	return row, nil
}

func (m *memoryStore) GetByID(_ context.Context, id uuid.UUID) (sqlcgen.Quiz, error) {
	q, ok := m.byID[id]
	if !ok {
		return sqlcgen.Quiz{}, repository.ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) GetByJoinCode(_ context.Context, code string) (sqlcgen.Quiz, error) {
	for _, q := range m.byID {
		if q.JoinCode == code {
			return q, nil
		}
	}
	return sqlcgen.Quiz{}, repository.ErrNotFound
}

func (m *memoryStore) List(context.Context) ([]sqlcgen.Quiz, error) {
	out := make([]sqlcgen.Quiz, 0, len(m.byID))
	for _, q := range m.byID {
		out = append(out, q)
	}
	return out, nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) (sqlcgen.Quiz, error) {
	q, ok := m.byID[id]
	if !ok {
		return sqlcgen.Quiz{}, repository.ErrNotFound
	}
	q.Status = status
	m.byID[id] = q
	return q, nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func newTestService(store *memoryStore, codes ...string) *Service {
	svc := NewService(store, zerolog.New(io.Discard))
	if len(codes) > 0 {
		svc.newCode = func() (string, error) {
			c := codes[0]
			if len(codes) > 1 {
				codes = codes[1:]
			}
			return c, nil
		}
	}
	return svc
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := newTestService(newMemoryStore(), "ABC123")
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateRequest{Title: "  Finals  "})
	require.NoError(t, err)
	assert.Equal(t, "Finals", q.Title)
	assert.Equal(t, 120, q.DurationMinutes)
	assert.Equal(t, StatusWaiting, q.Status)
	assert.Equal(t, "ABC123", q.JoinCode)

	_, err = svc.Create(ctx, CreateRequest{Title: " "})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Create(ctx, CreateRequest{Title: "x", DurationMinutes: -5})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestCreateRetriesJoinCodeCollision(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, "AAAAAA", "AAAAAA", "BBBBBB")
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateRequest{Title: "one"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateRequest{Title: "two"})
	require.NoError(t, err)

	assert.Equal(t, "AAAAAA", first.JoinCode)
	assert.Equal(t, "BBBBBB", second.JoinCode)
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, "AAAAAA")
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Title: "one"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Title: "two"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestResolve(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, "C0FFEE")
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Title: "Resolve"})
	require.NoError(t, err)

	byCode, err := svc.Resolve(ctx, "c0ffee")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	byID, err := svc.Resolve(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	_, err = svc.Resolve(ctx, "not-an-id")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Resolve(ctx, "ABCDEF")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Resolve(ctx, uuid.NewString())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSetStatusAndDelete(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, "123456")
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateRequest{Title: "Status"})
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, q.ID, StatusActive)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, updated.Status)

	_, err = svc.SetStatus(ctx, q.ID, Status("paused"))
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, q.ID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, q.ID)))
	_, err = svc.Get(ctx, q.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteRunsHooks(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, "FACE01")
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateRequest{Title: "Hooks"})
	require.NoError(t, err)

	var deleted []Quiz
	svc.OnDelete(func(_ context.Context, q Quiz) { deleted = append(deleted, q) })

	require.NoError(t, svc.Delete(ctx, q.ID))
	require.Len(t, deleted, 1)
	assert.Equal(t, q.ID, deleted[0].ID)
	assert.Equal(t, "FACE01", deleted[0].JoinCode)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, q.ID)))
	assert.Len(t, deleted, 1, "hooks do not run for a missing quiz")
}
