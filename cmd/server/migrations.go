package main

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/promoterhq/promoter-api/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "migrations")
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), "component", "migrations")
}

// runMigrations executes the given goose command (up, down, status) against
// the configured database using the embedded migration files.
func runMigrations(cfg *config.Config, command string) error {
	run, err := migrationCommand(command)
	if err != nil {
		return err
	}

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close migration connection", "error", closeErr)
		}
	}()

	return run(db)
}

func migrationCommand(command string) (func(*sql.DB) error, error) {
	switch command {
	case "up":
		return func(db *sql.DB) error { return goose.Up(db, "migrations") }, nil
	case "down":
		return func(db *sql.DB) error { return goose.Down(db, "migrations") }, nil
	case "status":
		return func(db *sql.DB) error { return goose.Status(db, "migrations") }, nil
	default:
		return nil, fmt.Errorf("unknown migration command %q (want up, down, or status)", command)
	}
}
