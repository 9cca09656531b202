// Package choices manages the ordered, user-edited option list that feeds the wheel.
package choices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxLabelRunes caps a single option label.
const MaxLabelRunes = 80

var (
	// ErrEmptyLabel is returned when a label is empty after trimming.
	ErrEmptyLabel = errors.New("label must not be blank")
	// ErrLabelTooLong is returned when a label exceeds MaxLabelRunes.
	ErrLabelTooLong = fmt.Errorf("label must be at most %d characters", MaxLabelRunes)
)

// List is the ordered option list for one desk. Insertion order is sector order.
//
// Every mutation is written through to the Store. A failed write is logged and
// the in-memory list is kept.
type List struct {
	mu     sync.Mutex
	labels []string
	stored bool
	store  Store
	logger *zap.Logger
}

// Load restores the list from store, falling back to a copy of defaults when
// nothing was stored or the stored value cannot be decoded.
//
// Precondition: store and logger must be non-nil.
// Postcondition: Returns a non-nil List. Read failures are never surfaced.
func Load(ctx context.Context, store Store, defaults []string, logger *zap.Logger) *List {
	l := &List{store: store, logger: logger, labels: clone(defaults)}
	raw, found, err := store.Get(ctx, KeyOptions)
	if err != nil {
		logger.Warn("loading options failed, using defaults", zap.Error(err))
		return l
	}
	if !found {
		return l
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		logger.Warn("stored options are malformed, using defaults", zap.Error(err))
		return l
	}
	l.labels = labels
	l.stored = true
	return l
}

// Append adds label to the end of the list.
//
// Postcondition: Returns ErrEmptyLabel or ErrLabelTooLong and leaves the list
// unchanged when the trimmed label is invalid; otherwise the list grows by one.
func (l *List) Append(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyLabel
	}
	if utf8.RuneCountInString(label) > MaxLabelRunes {
		return ErrLabelTooLong
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.labels = append(l.labels, label)
	l.persistLocked(ctx)
	return nil
}

// RemoveAt deletes the label at index i.
//
// Postcondition: Returns false and leaves the list unchanged when i is out of range.
func (l *List) RemoveAt(ctx context.Context, i int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.labels) {
		return false
	}
	l.labels = append(l.labels[:i:i], l.labels[i+1:]...)
	l.persistLocked(ctx)
	return true
}

// Reset replaces the list with a copy of defaults.
func (l *List) Reset(ctx context.Context, defaults []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.labels = clone(defaults)
	l.persistLocked(ctx)
}

// AdoptDefaults replaces the list with defaults only if no list was ever
// stored, and reports whether it did. When it does, the new list and every
// pair in also are written in one SetAll call.
func (l *List) AdoptDefaults(ctx context.Context, defaults []string, also map[string]string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stored {
		return false
	}
	l.labels = clone(defaults)
	pairs := make(map[string]string, len(also)+1)
	for k, v := range also {
		pairs[k] = v
	}
	pairs[KeyOptions] = encode(l.labels)
	if err := l.store.SetAll(ctx, pairs); err != nil {
		l.logger.Warn("saving adopted defaults failed", zap.Error(err))
		return true
	}
	l.stored = true
	return true
}

// Snapshot returns a copy of the labels.
func (l *List) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.labels)
}

// Len returns the number of labels.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.labels)
}

// Stored reports whether the list has ever been persisted.
func (l *List) Stored() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stored
}

// Encode returns the persisted JSON form of the list.
func (l *List) Encode() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return encode(l.labels)
}

func (l *List) persistLocked(ctx context.Context) {
	if err := l.store.Set(ctx, KeyOptions, encode(l.labels)); err != nil {
		l.logger.Warn("saving options failed", zap.Error(err))
		return
	}
	l.stored = true
}

func encode(labels []string) string {
	if labels == nil {
		labels = []string{}
	}
	b, _ := json.Marshal(labels)
	return string(b)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
