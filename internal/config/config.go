package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"cbt-platform"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Admin    Admin
	Exam     Exam
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string for a single connection.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// ConnString is DSN plus the pgxpool sizing parameter.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.DSN(), p.MaxConns)
}

// Redis holds cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret  string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL   time.Duration `env:"JWT_TTL" envDefault:"72h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`
}

// Admin optionally bootstraps an administrator account at startup.
type Admin struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:""`
	Password string `env:"ADMIN_PASSWORD" envDefault:""`
}

// Enabled reports whether both bootstrap credentials are present.
func (a Admin) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// Exam groups session timing and read-model knobs.
type Exam struct {
	SubmitTolerance     time.Duration `env:"EXAM_SUBMIT_TOLERANCE" envDefault:"5s"`
	LeaderboardLimit    int           `env:"EXAM_LEADERBOARD_LIMIT" envDefault:"50"`
	StatusCacheTTL      time.Duration `env:"EXAM_STATUS_CACHE_TTL" envDefault:"2s"`
	AnswerKeyTTL        time.Duration `env:"EXAM_ANSWER_KEY_TTL" envDefault:"10m"`
	LeaderboardCacheTTL time.Duration `env:"EXAM_LEADERBOARD_CACHE_TTL" envDefault:"5s"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Exam.LeaderboardLimit <= 0 {
		return nil, fmt.Errorf("parse config: EXAM_LEADERBOARD_LIMIT must be positive")
	}
	if cfg.Exam.SubmitTolerance <= 0 {
		return nil, fmt.Errorf("parse config: EXAM_SUBMIT_TOLERANCE must be positive")
	}
	return cfg, nil
}
