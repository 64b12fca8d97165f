package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/cbt-platform/internal/auth"
	"github.com/gokatarajesh/cbt-platform/internal/auth/jwt"
	"github.com/gokatarajesh/cbt-platform/internal/config"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
	"github.com/gokatarajesh/cbt-platform/internal/exam"
	"github.com/gokatarajesh/cbt-platform/internal/leaderboard"
	"github.com/gokatarajesh/cbt-platform/internal/question"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

type emptyUsers struct{}

func (emptyUsers) Create(context.Context, sqlcgen.CreateUserParams) (sqlcgen.User, error) {
	return sqlcgen.User{}, repository.ErrDuplicate
}

func (emptyUsers) GetByEmail(context.Context, string) (sqlcgen.User, error) {
	return sqlcgen.User{}, repository.ErrNotFound
}

func (emptyUsers) GetByTeamName(context.Context, string) (sqlcgen.User, error) {
	return sqlcgen.User{}, repository.ErrNotFound
}

func (emptyUsers) GetByID(context.Context, uuid.UUID) (sqlcgen.User, error) {
	return sqlcgen.User{}, repository.ErrNotFound
}

func (emptyUsers) ListStudents(context.Context) ([]sqlcgen.User, error) {
	return nil, nil
}

func (emptyUsers) Delete(context.Context, uuid.UUID) error {
	return repository.ErrNotFound
}

const testSecret = "router-secret"

func newTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	logger := zerolog.Nop()
	tokenCfg := jwt.TokenConfig{Secret: []byte(testSecret), Issuer: "cbt-test"}
	authSvc := auth.NewService(emptyUsers{}, auth.ServiceOptions{TokenConfig: tokenCfg, BcryptCost: 4}, logger)

	cfg := &config.App{CORS: config.CORS{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         60,
	}}
	router := NewRouter(cfg, logger, nil, nil, Handlers{
		Auth:          auth.NewHTTPHandlers(authSvc, logger),
		Authenticator: auth.Authenticate(authSvc, logger),
		Quiz:          quiz.NewHTTPHandler(nil, logger),
		Question:      question.NewHTTPHandler(nil, logger),
		Exam:          exam.NewHTTPHandler(nil, logger),
		Leaderboard:   leaderboard.NewHTTPHandler(nil, nil, logger),
	})
	return router, jwt.NewManager(tokenCfg)
}

func bearer(t *testing.T, mgr *jwt.Manager, role string) string {
	t.Helper()
	token, err := mgr.Generate(jwt.Subject{ID: uuid.New(), Email: "team@example.com", TeamName: "team", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestBaseRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutes(t *testing.T) {
	router, mgr := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"exam needs a token", http.MethodGet, "/api/exam/status/ABCDEF", "", http.StatusUnauthorized},
		{"admin list as student", http.MethodGet, "/api/users", bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"quiz status as student", http.MethodPut, "/api/quizzes/" + uuid.NewString() + "/status", bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"reset as student", http.MethodPut, "/api/quizzes/" + uuid.NewString() + "/reset", bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"quiz list as student", http.MethodGet, "/api/quizzes", bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"quiz detail as student", http.MethodGet, "/api/quizzes/" + uuid.NewString(), bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"question list as student", http.MethodGet, "/api/questions/" + uuid.NewString(), bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"question create as student", http.MethodPost, "/api/questions", bearer(t, mgr, jwt.RoleStudent), http.StatusForbidden},
		{"question create as admin without body", http.MethodPost, "/api/questions", bearer(t, mgr, jwt.RoleAdmin), http.StatusBadRequest},
		{"question update with bad id", http.MethodPut, "/api/questions/nope", bearer(t, mgr, jwt.RoleAdmin), http.StatusNotFound},
		{"admin list as admin", http.MethodGet, "/api/users", bearer(t, mgr, jwt.RoleAdmin), http.StatusOK},
		{"bad token", http.MethodGet, "/api/auth/me", "Bearer nonsense", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
