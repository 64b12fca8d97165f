package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

type userStore interface {
	CreateUser(ctx context.Context, arg sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetUserByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetUserByID(ctx context.Context, userID pgtype.UUID) (sqlcgen.User, error)
	GetUserByTeamName(ctx context.Context, teamName string) (sqlcgen.User, error)
	ListStudents(ctx context.Context) ([]sqlcgen.User, error)
	DeleteUser(ctx context.Context, userID pgtype.UUID) (int64, error)
}

// UserRepository exposes typed DB operations for team accounts.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps sqlc Queries for user-specific operations.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts an account. A taken email or team name yields a *DuplicateError.
func (r *UserRepository) Create(ctx context.Context, params sqlcgen.CreateUserParams) (sqlcgen.User, error) {
	user, err := r.store.CreateUser(ctx, params)
	return user, translate(err)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (sqlcgen.User, error) {
	user, err := r.store.GetUserByEmail(ctx, email)
	return user, translate(err)
}

// GetByTeamName fetches a user by team name.
func (r *UserRepository) GetByTeamName(ctx context.Context, teamName string) (sqlcgen.User, error) {
	user, err := r.store.GetUserByTeamName(ctx, teamName)
	return user, translate(err)
}

// GetByID fetches a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (sqlcgen.User, error) {
	user, err := r.store.GetUserByID(ctx, PGUUID(userID))
	return user, translate(err)
}

// ListStudents returns every non-admin account, newest first.
func (r *UserRepository) ListStudents(ctx context.Context) ([]sqlcgen.User, error) {
	users, err := r.store.ListStudents(ctx)
	return users, translate(err)
}

// Delete removes an account; submissions cascade.
func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	n, err := r.store.DeleteUser(ctx, PGUUID(userID))
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
