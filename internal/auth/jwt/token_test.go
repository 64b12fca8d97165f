package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("secret")})
	id := uuid.New()

	token, err := mgr.Generate(Subject{ID: id, Email: "a@example.com", TeamName: "Alpha", Role: RoleStudent})
	require.NoError(t, err)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "Alpha", claims.TeamName)
	assert.False(t, claims.IsAdmin())
	assert.Equal(t, 72*time.Hour, mgr.TTL())
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	issuer := NewManager(TokenConfig{Secret: []byte("one")})
	verifier := NewManager(TokenConfig{Secret: []byte("two")})

	token, err := issuer.Generate(Subject{ID: uuid.New(), Role: RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("secret"), TTL: time.Minute})
	issued := time.Now().Add(-time.Hour)
	mgr.now = func() time.Time { return issued }

	token, err := mgr.Generate(Subject{ID: uuid.New(), Role: RoleStudent})
	require.NoError(t, err)

	mgr.now = time.Now
	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	mgr := NewManager(TokenConfig{Secret: []byte("secret")})
	_, err := mgr.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
