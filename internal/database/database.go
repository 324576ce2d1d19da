// Package database opens the SQLite store and manages its schema with goose.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Drivers accepted by Open. "sqlite" is modernc.org/sqlite, "sqlite3" is
// mattn/go-sqlite3.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// DefaultMigrationsDir is where Create writes new migration files.
const DefaultMigrationsDir = "internal/database/migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Open connects to dsn and pings it. SQLite serializes writers, so the pool
// holds a single connection; this also keeps ":memory:" databases alive
// across calls.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverModernc, DriverMattn:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return conn, nil
}

// Runner wraps goose for migration operations
type Runner struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRunner creates a migration runner over an open database.
func NewRunner(db *sql.DB, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{db: db, logger: logger}
}

// Up runs all pending migrations
func (r *Runner) Up(ctx context.Context) error {
	return r.run(func() error {
		if err := goose.UpContext(ctx, r.db, "migrations"); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		return nil
	})
}

// Down rolls back the most recent migration
func (r *Runner) Down(ctx context.Context) error {
	return r.run(func() error {
		if err := goose.DownContext(ctx, r.db, "migrations"); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		return nil
	})
}

// Status logs the state of every migration.
func (r *Runner) Status(ctx context.Context) error {
	return r.run(func() error {
		if err := goose.StatusContext(ctx, r.db, "migrations"); err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		return nil
	})
}

// Version returns the current schema version.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	var v int64
	err := r.run(func() error {
		var err error
		v, err = goose.GetDBVersionContext(ctx, r.db)
		return err
	})
	return v, err
}

func (r *Runner) run(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{r.logger.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return fn()
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return NewRunner(db, logger).Up(ctx)
}

// Create writes an empty goose migration named name into dir and returns
// its path. Migrations are embedded, so the binary must be rebuilt to pick
// it up.
func Create(dir, name string, now time.Time) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", fmt.Errorf("migration name is required")
	}
	filename := fmt.Sprintf("%s_%s.sql", now.Format("20060102150405"), name)
	path := filepath.Join(dir, filename)

	content := `-- +goose Up
-- +goose StatementBegin
-- Add your SQL here
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- Add your SQL here
-- +goose StatementEnd
`
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to create migration file: %w", err)
	}
	return path, nil
}

type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.s.Errorf(strings.TrimSuffix(format, "\n"), v...)
}
