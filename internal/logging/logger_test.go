package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContextDefaultsToNop(t *testing.T) {
	logger := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestIntoContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := IntoContext(context.Background(), logger)
	got := FromContext(ctx)
	got.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
}

func TestMiddlewareAttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	handler := middleware.RequestID(Middleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := FromContext(r.Context())
		l.Info().Msg("inside handler")
		w.WriteHeader(http.StatusInternalServerError)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exam/status/ABC123", nil))

	out := buf.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, `"path":"/exam/status/ABC123"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, "request_id")
}
