package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/auth"
	"github.com/gokatarajesh/cbt-platform/internal/config"
	"github.com/gokatarajesh/cbt-platform/internal/exam"
	"github.com/gokatarajesh/cbt-platform/internal/leaderboard"
	"github.com/gokatarajesh/cbt-platform/internal/logging"
	"github.com/gokatarajesh/cbt-platform/internal/question"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

// Handlers groups the domain handlers mounted on the router.
type Handlers struct {
	Auth          *auth.HTTPHandlers
	Authenticator func(http.Handler) http.Handler
	Quiz          *quiz.HTTPHandler
	Question      *question.HTTPHandler
	Exam          *exam.HTTPHandler
	Leaderboard   *leaderboard.HTTPHandler
}

// NewHTTPServer wires base routes (health, metrics) and the API.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, pool, redis, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the chi router. pool and redis may be nil, which disables /ping.
func NewRouter(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if pool == nil || redis == nil {
			http.Error(w, "dependencies not configured", http.StatusServiceUnavailable)
			return
		}
		if err := pingDependencies(r.Context(), pool, redis); err != nil {
			l := logging.FromContext(r.Context())
			l.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticator)

			r.Get("/auth/me", h.Auth.Me)

			r.Post("/exam/join/{quizIdOrCode}", h.Exam.Join)
			r.Get("/exam/status/{quizIdOrCode}", h.Exam.Status)
			r.Post("/exam/start/{quizIdOrCode}", h.Exam.Start)
			r.Put("/exam/save-answers/{submissionId}", h.Exam.SaveAnswers)
			r.Post("/exam/submit/{submissionId}", h.Exam.Submit)
			r.Post("/exam/violation/{submissionId}", h.Exam.Violation)
			r.Get("/exam/leaderboard/{quizIdOrCode}", h.Leaderboard.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Get("/users", h.Auth.ListUsers)
				r.Delete("/users/{id}", h.Auth.DeleteUser)

				r.Get("/quizzes", h.Quiz.List)
				r.Get("/quizzes/{id}", h.Quiz.Get)
				r.Post("/quizzes", h.Quiz.Create)
				r.Delete("/quizzes/{id}", h.Quiz.Delete)
				r.Put("/quizzes/{id}/status", h.Exam.SetQuizStatus)
				r.Put("/quizzes/{id}/reset", h.Exam.ResetQuiz)

				r.Post("/questions", h.Question.Create)
				r.Get("/questions/{id}", h.Question.List)
				r.Put("/questions/{id}", h.Question.Update)
				r.Delete("/questions/{id}", h.Question.Delete)
			})
		})
	})

	return r
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
