package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/cbt-platform/internal/auth/jwt"
)

func tokenFor(t *testing.T, mgr *jwt.Manager, role string) string {
	t.Helper()
	token, err := mgr.Generate(jwt.Subject{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthenticateAndRequireAdmin(t *testing.T) {
	mgr := jwt.NewManager(jwt.TokenConfig{Secret: []byte("secret")})
	svc := &Service{tokenMgr: mgr}

	reached := false
	handler := Authenticate(svc, zerolog.Nop())(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		reached = ok && claims.IsAdmin()
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"student token", "Bearer " + tokenFor(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"admin token", "Bearer " + tokenFor(t, mgr, jwt.RoleAdmin), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.True(t, reached)
}
