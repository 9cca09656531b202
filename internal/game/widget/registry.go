package widget

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/locale"
)

// ErrInvalidProfile is returned for profile names outside [A-Za-z0-9_-]{1,32}.
var ErrInvalidProfile = errors.New("profile must be 1-32 letters, digits, '-' or '_'")

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// StoreOpener returns the settings store for one profile.
type StoreOpener func(profile string) choices.Store

// Registry keeps one Desk per settings profile so every client of a profile
// sees the same options and the same running animation.
type Registry struct {
	mu      sync.Mutex
	desks   map[string]*Desk
	open    StoreOpener
	table   *locale.Table
	sampler *dice.Sampler
	opts    Options
	logger  *zap.Logger
}

// NewRegistry creates an empty Registry.
//
// Precondition: open, table, sampler and logger must be non-nil.
func NewRegistry(open StoreOpener, table *locale.Table, sampler *dice.Sampler, opts Options, logger *zap.Logger) *Registry {
	return &Registry{
		desks:   make(map[string]*Desk),
		open:    open,
		table:   table,
		sampler: sampler,
		opts:    opts,
		logger:  logger,
	}
}

// Desk returns the desk for profile, restoring it from storage on first use.
//
// Postcondition: Returns ErrInvalidProfile for a malformed name; otherwise the
// same *Desk for every call with the same profile.
func (r *Registry) Desk(ctx context.Context, profile string) (*Desk, error) {
	if !profilePattern.MatchString(profile) {
		return nil, ErrInvalidProfile
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.desks[profile]; ok {
		return d, nil
	}
	logger := r.logger.With(zap.String("profile", profile))
	d := NewDesk(ctx, r.open(profile), r.table, r.sampler, r.opts, logger)
	r.desks[profile] = d
	logger.Info("desk restored",
		zap.String("language", d.Wheel.Language()),
		zap.Int("options", len(d.Wheel.View().Labels)),
	)
	return d, nil
}

// Table returns the locale table shared by every desk.
func (r *Registry) Table() *locale.Table {
	return r.table
}
