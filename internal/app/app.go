package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/auth"
	"github.com/gokatarajesh/cbt-platform/internal/auth/jwt"
	"github.com/gokatarajesh/cbt-platform/internal/config"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
	"github.com/gokatarajesh/cbt-platform/internal/exam"
	"github.com/gokatarajesh/cbt-platform/internal/leaderboard"
	"github.com/gokatarajesh/cbt-platform/internal/logging"
	"github.com/gokatarajesh/cbt-platform/internal/question"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
	"github.com/gokatarajesh/cbt-platform/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps logger, Postgres, Redis, the domain services and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	userRepo := repository.NewUserRepository(queries)
	quizRepo := repository.NewQuizRepository(queries)
	questionRepo := repository.NewQuestionRepository(queries)
	submissionRepo := repository.NewSubmissionRepository(queries)

	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			Secret: []byte(cfg.Security.JWTSecret),
			TTL:    cfg.Security.TokenTTL,
			Issuer: cfg.Name,
		},
		BcryptCost: cfg.Security.BcryptCost,
	}, logger)

	if cfg.Admin.Enabled() {
		if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			pool.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	} else {
		logger.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set; no admin account bootstrapped")
	}

	quizSvc := quiz.NewService(quizRepo, logger)
	questionSvc := question.NewService(questionRepo, quizSvc, question.NewCache(redisClient, cfg.Exam.AnswerKeyTTL), logger)
	leaderboardSvc := leaderboard.NewService(submissionRepo, redisClient, logger, leaderboard.ServiceOptions{
		TopN:     cfg.Exam.LeaderboardLimit,
		CacheTTL: cfg.Exam.LeaderboardCacheTTL,
	})
	examSvc := exam.NewService(
		submissionRepo,
		quizSvc,
		questionSvc,
		leaderboardSvc,
		exam.NewRedisStatusCache(redisClient, cfg.Exam.StatusCacheTTL),
		logger,
		exam.ServiceOptions{
			SubmitTolerance: cfg.Exam.SubmitTolerance,
			Metrics:         exam.NewMetrics(prometheus.DefaultRegisterer),
		},
	)

	quizSvc.OnDelete(examSvc.ForgetQuiz)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, server.Handlers{
		Auth:          auth.NewHTTPHandlers(authSvc, logger),
		Authenticator: auth.Authenticate(authSvc, logger),
		Quiz:          quiz.NewHTTPHandler(quizSvc, logger),
		Question:      question.NewHTTPHandler(questionSvc, logger),
		Exam:          exam.NewHTTPHandler(examSvc, logger),
		Leaderboard:   leaderboard.NewHTTPHandler(leaderboardSvc, quizSvc, logger),
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
