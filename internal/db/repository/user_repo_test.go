package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, arg sqlcgen.CreateUserParams) (sqlcgen.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (sqlcgen.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID pgtype.UUID) (sqlcgen.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) GetUserByTeamName(ctx context.Context, teamName string) (sqlcgen.User, error) {
	args := m.Called(ctx, teamName)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) ListStudents(ctx context.Context) ([]sqlcgen.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) DeleteUser(ctx context.Context, userID pgtype.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestUserRepository_Create(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	params := sqlcgen.CreateUserParams{
		UserID:       uuidFromByte(1),
		Email:        "team@example.com",
		PasswordHash: "hashed",
		TeamName:     "Alpha",
		LeaderName:   "Ayu",
		School:       "SMA 1",
		Role:         "student",
	}
	expect := sqlcgen.User{UserID: params.UserID, Email: params.Email, TeamName: "Alpha", Role: "student"}

	store.On("CreateUser", mock.Anything, params).Return(expect, nil)

	got, err := repo.Create(context.Background(), params)

	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestUserRepository_CreateDuplicateTeam(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserTeamName}
	store.On("CreateUser", mock.Anything, mock.Anything).Return(sqlcgen.User{}, pgErr)

	_, err := repo.Create(context.Background(), sqlcgen.CreateUserParams{})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.True(t, IsDuplicateOf(err, ConstraintUserTeamName))
	assert.False(t, IsDuplicateOf(err, ConstraintUserEmail))
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	store.On("GetUserByEmail", mock.Anything, "missing@example.com").Return(sqlcgen.User{}, pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")

	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertExpectations(t)
}

func TestUserRepository_GetByID(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	expect := sqlcgen.User{UserID: uuidFromByte(2), TeamName: "Beta"}
	store.On("GetUserByID", mock.Anything, uuidFromByte(2)).Return(expect, nil)

	got, err := repo.GetByID(context.Background(), idFromByte(2))

	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestUserRepository_Delete(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	store.On("DeleteUser", mock.Anything, uuidFromByte(3)).Return(int64(1), nil)
	store.On("DeleteUser", mock.Anything, uuidFromByte(4)).Return(int64(0), nil)

	assert.NoError(t, repo.Delete(context.Background(), idFromByte(3)))
	assert.ErrorIs(t, repo.Delete(context.Background(), idFromByte(4)), ErrNotFound)
	store.AssertExpectations(t)
}
