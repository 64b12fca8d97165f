package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a team account as exposed to API callers.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	TeamName   string    `json:"teamName"`
	LeaderName string    `json:"leaderName"`
	School     string    `json:"school"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsAdmin reports whether the account holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == roleAdmin
}

// Token is an issued access token.
type Token struct {
	AccessToken string `json:"token"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest carries the team registration form.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TeamName   string `json:"teamName"`
	LeaderName string `json:"leaderName"`
	School     string `json:"school"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
