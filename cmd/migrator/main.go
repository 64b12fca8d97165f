package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/cbt-platform/internal/config"
)

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}

func newRootCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:           "migrator",
		Short:         "Apply goose migrations to the CBT database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "db/migrations", "directory containing migration files")

	cmd.AddCommand(
		dbCommand("up", "Apply all pending migrations", &dir, func(db *sql.DB, migrationDir string) error {
			if err := goose.Up(db, migrationDir); err != nil {
				return err
			}
			log.Info().Msg("migrations applied successfully")
			return nil
		}),
		dbCommand("down", "Roll back the latest migration", &dir, func(db *sql.DB, migrationDir string) error {
			if err := goose.Down(db, migrationDir); err != nil {
				return err
			}
			log.Info().Msg("migration rolled back successfully")
			return nil
		}),
		dbCommand("status", "Print the migration status", &dir, func(db *sql.DB, migrationDir string) error {
			return goose.Status(db, migrationDir)
		}),
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a new SQL migration file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return goose.Create(nil, dir, args[0], "sql")
			},
		},
	)
	return cmd
}

func dbCommand(use, short string, dir *string, run func(db *sql.DB, migrationDir string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrationDir, err := filepath.Abs(*dir)
			if err != nil {
				return fmt.Errorf("resolve migration directory: %w", err)
			}
			if _, err := os.Stat(migrationDir); err != nil {
				return fmt.Errorf("migration directory %s: %w", migrationDir, err)
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			goose.SetTableName("goose_db_version")
			log.Info().Str("command", use).Str("migration_dir", migrationDir).Msg("running migrations")
			return run(db, migrationDir)
		},
	}
}

func openDB() (*sql.DB, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	var pg config.Postgres
	if err := env.Parse(&pg); err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Str("host", pg.Host).Int("port", pg.Port).Str("database", pg.Database).Msg("connected to database")
	return db, nil
}
