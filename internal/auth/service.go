package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/auth/jwt"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

const (
	roleStudent = jwt.RoleStudent
	roleAdmin   = jwt.RoleAdmin
)

type userRepository interface {
	Create(ctx context.Context, params sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetByTeamName(ctx context.Context, teamName string) (sqlcgen.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (sqlcgen.User, error)
	ListStudents(ctx context.Context) ([]sqlcgen.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

var _ userRepository = (*repository.UserRepository)(nil)

// Service handles team registration, login and account administration.
type Service struct {
	users    userRepository
	tokenMgr *jwt.Manager
	hasher   Hasher
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
	BcryptCost  int
}

// NewService creates an authentication service.
func NewService(users userRepository, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		hasher:   NewHasher(opts.BcryptCost),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a student team account and signs a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *Token, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.TeamName = strings.TrimSpace(req.TeamName)
	req.LeaderName = strings.TrimSpace(req.LeaderName)
	req.School = strings.TrimSpace(req.School)

	if err := validateRegistration(req); err != nil {
		return nil, nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.GetByTeamName(ctx, req.TeamName); err == nil {
		return nil, nil, apperr.Conflict("team name already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("lookup team name: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooShort) {
			return nil, nil, apperr.Invalid("password", err.Error())
		}
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	dbUser, err := s.users.Create(ctx, sqlcgen.CreateUserParams{
		UserID:       repository.PGUUID(uuid.New()),
		Email:        req.Email,
		PasswordHash: hash,
		TeamName:     req.TeamName,
		LeaderName:   req.LeaderName,
		School:       req.School,
		Role:         roleStudent,
	})
	if err != nil {
		switch {
		case repository.IsDuplicateOf(err, repository.ConstraintUserEmail):
			return nil, nil, apperr.Conflict("email already registered")
		case repository.IsDuplicateOf(err, repository.ConstraintUserTeamName):
			return nil, nil, apperr.Conflict("team name already taken")
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	user := toUser(dbUser)
	token, err := s.issue(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("team", user.TeamName).Msg("team registered")
	return &user, token, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *Token, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, nil, apperr.Invalid("email", "email and password are required")
	}

	dbUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := s.hasher.Verify(dbUser.PasswordHash, req.Password); err != nil {
		return nil, nil, apperr.Unauthorized("invalid email or password")
	}

	user := toUser(dbUser)
	token, err := s.issue(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &user, token, nil
}

// Profile returns the account behind userID.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user := toUser(dbUser)
	return &user, nil
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.Validate(tokenString)
}

// ListParticipants returns student accounts, newest first.
func (s *Service) ListParticipants(ctx context.Context) ([]User, error) {
	rows, err := s.users.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	users := make([]User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toUser(row))
	}
	return users, nil
}

// DeleteParticipant removes a student account. Admin accounts are refused.
func (s *Service) DeleteParticipant(ctx context.Context, userID uuid.UUID) error {
	dbUser, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}
	if dbUser.Role == roleAdmin {
		return apperr.Forbidden("admin accounts cannot be deleted")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("user_id", userID.String()).Msg("participant deleted")
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no account owns email.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != roleAdmin {
			s.logger.Warn().Str("email", email).Msg("bootstrap admin email belongs to a student account")
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.users.Create(ctx, sqlcgen.CreateUserParams{
		UserID:       repository.PGUUID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		TeamName:     "admin:" + email,
		LeaderName:   "Administrator",
		School:       "-",
		Role:         roleAdmin,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info().Str("email", email).Msg("bootstrap admin ensured")
	return nil
}

func (s *Service) issue(user User) (*Token, error) {
	signed, err := s.tokenMgr.Generate(jwt.Subject{
		ID:       user.ID,
		Email:    user.Email,
		TeamName: user.TeamName,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &Token{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokenMgr.TTL() / time.Second),
	}, nil
}

func validateRegistration(req RegisterRequest) error {
	required := []struct {
		field, value string
	}{
		{"email", req.Email},
		{"password", req.Password},
		{"teamName", req.TeamName},
		{"leaderName", req.LeaderName},
		{"school", req.School},
	}
	for _, r := range required {
		if r.value == "" {
			return apperr.Invalid(r.field, r.field+" is required")
		}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.Invalid("email", "email is not a valid address")
	}
	return nil
}

func toUser(u sqlcgen.User) User {
	created, _ := repository.Time(u.CreatedAt)
	return User{
		ID:         repository.UUID(u.UserID),
		Email:      u.Email,
		TeamName:   u.TeamName,
		LeaderName: u.LeaderName,
		School:     u.School,
		Role:       u.Role,
		CreatedAt:  created,
	}
}
