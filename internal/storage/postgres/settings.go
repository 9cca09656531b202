package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/choices"
)

const (
	settingsTable = "desk_settings"
	colProfile    = "profile"
	colKey        = "key"
	colValue      = "value"
	colUpdatedAt  = "updated_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Backend stores desk settings in the desk_settings table.
type Backend struct {
	pool   *Pool
	tx     trm.Manager
	getter *trmpgx.CtxGetter
	logger *zap.Logger
}

// NewBackend creates a Backend over pool.
//
// Precondition: pool must be connected and migrated.
// Postcondition: Returns a Backend or a non-nil error if the transaction
// manager cannot be built.
func NewBackend(pool *Pool, logger *zap.Logger) (*Backend, error) {
	m, err := manager.New(trmpgx.NewDefaultFactory(pool.DB()))
	if err != nil {
		return nil, fmt.Errorf("creating transaction manager: %w", err)
	}
	return &Backend{pool: pool, tx: m, getter: trmpgx.DefaultCtxGetter, logger: logger}, nil
}

// For returns the store scoped to profile.
func (b *Backend) For(profile string) choices.Store {
	return &Store{b: b, profile: profile}
}

// Close releases the pool.
func (b *Backend) Close() {
	b.pool.Close()
}

// Health reports whether the database answers within timeout.
func (b *Backend) Health(ctx context.Context, timeout time.Duration) error {
	return b.pool.Health(ctx, timeout)
}

// Store is one profile's settings.
type Store struct {
	b       *Backend
	profile string
}

// Get implements choices.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	sqlStr, args, err := psql.Select(colValue).
		From(settingsTable).
		Where(sq.Eq{colProfile: s.profile, colKey: key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building select: %w", err)
	}
	var value string
	err = s.b.getter.DefaultTrOrDB(ctx, s.b.pool.DB()).QueryRow(ctx, sqlStr, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements choices.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.upsert(ctx, key, value)
}

// SetAll implements choices.Store. All pairs are written in one transaction.
func (s *Store) SetAll(ctx context.Context, pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return s.b.tx.Do(ctx, func(ctx context.Context) error {
		for _, k := range keys {
			if err := s.upsert(ctx, k, pairs[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) upsert(ctx context.Context, key, value string) error {
	sqlStr, args, err := psql.Insert(settingsTable).
		Columns(colProfile, colKey, colValue, colUpdatedAt).
		Values(s.profile, key, value, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (" + colProfile + ", " + colKey + ") DO UPDATE SET " +
			colValue + " = EXCLUDED." + colValue + ", " +
			colUpdatedAt + " = EXCLUDED." + colUpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}
	if _, err := s.b.getter.DefaultTrOrDB(ctx, s.b.pool.DB()).Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	s.b.logger.Debug("setting saved", zap.String("profile", s.profile), zap.String("key", key))
	return nil
}
