// Package sqlite provides a single-file SQLite settings store for desks
// that run without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/fortune/internal/game/choices"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	settingsTable = "desk_settings"
	colProfile    = "profile"
	colKey        = "key"
	colValue      = "value"
	colUpdatedAt  = "updated_at"
)

// Backend stores desk settings in one SQLite file.
type Backend struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the SQLite file at path and applies migrations.
//
// Precondition: path must be non-blank; ":memory:" is accepted.
// Postcondition: Returns a migrated Backend or a non-nil error.
func Open(path string, logger *zap.Logger) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("sqlite store opened", zap.String("path", path))
	return &Backend{db: db, logger: logger}, nil
}

func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// For returns the store scoped to profile.
func (b *Backend) For(profile string) choices.Store {
	return &Store{b: b, profile: profile}
}

// Close closes the SQLite handle.
func (b *Backend) Close() {
	if err := b.db.Close(); err != nil {
		b.logger.Warn("closing sqlite db", zap.Error(err))
	}
}

// Health reports whether the database file answers within timeout.
func (b *Backend) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return b.db.PingContext(ctx)
}

// Store is one profile's settings.
type Store struct {
	b       *Backend
	profile string
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get implements choices.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	sqlStr, args, err := sq.Select(colValue).
		From(settingsTable).
		Where(sq.Eq{colProfile: s.profile, colKey: key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building select: %w", err)
	}
	var value string
	if err := s.b.db.QueryRowContext(ctx, sqlStr, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements choices.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.upsert(ctx, s.b.db, key, value)
}

// SetAll implements choices.Store. All pairs are written in one transaction.
func (s *Store) SetAll(ctx context.Context, pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := s.b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, k := range keys {
		if err := s.upsert(ctx, tx, k, pairs[k]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, ex execer, key, value string) error {
	sqlStr, args, err := sq.Insert(settingsTable).
		Columns(colProfile, colKey, colValue, colUpdatedAt).
		Values(s.profile, key, value, time.Now().UTC().UnixMilli()).
		Suffix("ON CONFLICT (" + colProfile + ", " + colKey + ") DO UPDATE SET " +
			colValue + " = excluded." + colValue + ", " +
			colUpdatedAt + " = excluded." + colUpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}
	if _, err := ex.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}
