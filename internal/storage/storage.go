// Package storage selects the settings backend named in configuration.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/config"
	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/storage/memory"
	"github.com/cory-johannsen/fortune/internal/storage/postgres"
	"github.com/cory-johannsen/fortune/internal/storage/sqlite"
)

// Backend hands out per-profile settings stores.
type Backend interface {
	// For returns the store for one settings profile.
	For(profile string) choices.Store
	// Health reports whether the backend is reachable within timeout.
	Health(ctx context.Context, timeout time.Duration) error
	Close()
}

// Open builds the backend selected by cfg.Storage.
//
// Precondition: cfg must have passed Validate.
// Postcondition: Returns a ready Backend or a non-nil error. The postgres
// backend expects its migrations to have been applied already.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Backend, error) {
	logger = logger.With(zap.String("backend", cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("settings are kept in memory and will not survive a restart")
		return memory.NewBackend(), nil
	case config.BackendSQLite:
		b, err := sqlite.Open(cfg.Storage.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		b, err := postgres.NewBackend(pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
