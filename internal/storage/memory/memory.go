// Package memory provides an in-process desk settings store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cory-johannsen/fortune/internal/game/choices"
)

// Backend holds settings for every profile in memory. Nothing survives a restart.
type Backend struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{data: make(map[string]map[string]string)}
}

// Store is one profile's view of a Backend.
type Store struct {
	b       *Backend
	profile string
}

// For returns the store scoped to profile.
func (b *Backend) For(profile string) choices.Store {
	return &Store{b: b, profile: profile}
}

// Close is a no-op.
func (b *Backend) Close() {}

// Health always succeeds unless ctx is done.
func (b *Backend) Health(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Get implements choices.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	v, ok := s.b.data[s.profile][key]
	return v, ok, nil
}

// Set implements choices.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.SetAll(ctx, map[string]string{key: value})
}

// SetAll implements choices.Store.
func (s *Store) SetAll(ctx context.Context, pairs map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	m, ok := s.b.data[s.profile]
	if !ok {
		m = make(map[string]string)
		s.b.data[s.profile] = m
	}
	for k, v := range pairs {
		m[k] = v
	}
	return nil
}
