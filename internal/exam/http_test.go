package exam

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/cbt-platform/internal/auth"
	"github.com/gokatarajesh/cbt-platform/internal/auth/jwt"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

func newRouter(h *HTTPHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/exam/join/{quizIdOrCode}", h.Join)
	r.Get("/exam/status/{quizIdOrCode}", h.Status)
	r.Post("/exam/start/{quizIdOrCode}", h.Start)
	r.Put("/exam/save-answers/{submissionId}", h.SaveAnswers)
	r.Post("/exam/submit/{submissionId}", h.Submit)
	r.Post("/exam/violation/{submissionId}", h.Violation)
	r.Put("/quizzes/{id}/status", h.SetQuizStatus)
	r.Put("/quizzes/{id}/reset", h.ResetQuiz)
	return r
}

func do(t *testing.T, router http.Handler, claims *jwt.Claims, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHTTPExamFlow(t *testing.T) {
	f := newFixture(t, quiz.StatusWaiting, nil)
	router := newRouter(NewHTTPHandler(f.svc, zerolog.Nop()))
	student := &jwt.Claims{UserID: uuid.New(), Role: jwt.RoleStudent}
	admin := &jwt.Claims{UserID: uuid.New(), Role: jwt.RoleAdmin}

	rec := do(t, router, nil, http.MethodPost, "/exam/join/A1B2C3", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, student, http.MethodPost, "/exam/join/a1b2c3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, student, http.MethodGet, "/exam/status/A1B2C3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view StatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(1), view.ParticipantCount)

	rec = do(t, router, student, http.MethodPost, "/exam/start/A1B2C3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, student, http.MethodPut, "/quizzes/"+f.quiz.ID.String()+"/status", `{"status":"active"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(t, router, admin, http.MethodPut, "/quizzes/"+f.quiz.ID.String()+"/status", `{"status":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, student, http.MethodPost, "/exam/start/A1B2C3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct")
	var started StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	subPath := started.Submission.ID.String()

	rec = do(t, router, student, http.MethodPut, "/exam/save-answers/"+subPath, `{"answers":"oops"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, router, student, http.MethodPut, "/exam/save-answers/"+subPath, `{"answers":{"`+q1+`":"A"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, student, http.MethodPost, "/exam/violation/"+subPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"violationCount":1}`, rec.Body.String())

	rec = do(t, router, student, http.MethodPost, "/exam/submit/"+subPath, `{"answers":{"`+q1+`":"A","`+q2+`":"B"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var submitted SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, 2, submitted.Submission.Score)

	rec = do(t, router, student, http.MethodPost, "/exam/submit/"+subPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.True(t, submitted.AlreadyCompleted)

	rec = do(t, router, student, http.MethodPost, "/exam/submit/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, admin, http.MethodPut, "/quizzes/"+f.quiz.ID.String()+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deletedSubmissions":1`)
}
