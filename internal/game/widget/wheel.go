package widget

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/locale"
	"github.com/cory-johannsen/fortune/internal/game/rotation"
)

// WheelOptions configures a Wheel.
type WheelOptions struct {
	DialOptions
	// Pointer and Origin are the wheel geometry angles in degrees.
	Pointer float64
	Origin  float64
}

// WheelView is a point-in-time copy of a wheel's presentable state.
type WheelView struct {
	Language     string
	Labels       []string
	Rotation     float64
	State        animation.State
	Result       string
	HasResult    bool
	LastSelected int
	// Spinning holds the labels the running session was planned against.
	Spinning []string
}

// Wheel is the controller for the spinning option wheel.
type Wheel struct {
	mu      sync.Mutex
	eng     engine
	list    *choices.List
	store   choices.Store
	table   *locale.Table
	lang    string
	pointer float64
	origin  float64
	logger  *zap.Logger

	// spin is the label snapshot the running session was planned against.
	spin         []string
	lastSelected int
	result       string
	hasResult    bool
}

// NewWheel restores the wheel for one profile from store.
//
// Precondition: store, table, sampler and logger must be non-nil.
// Postcondition: Returns an idle wheel at rotation 0. The language falls back
// to locale.DefaultCode and the list to that language's defaults when nothing
// usable is stored.
func NewWheel(ctx context.Context, store choices.Store, table *locale.Table, sampler *dice.Sampler, opts WheelOptions, logger *zap.Logger) *Wheel {
	lang := locale.DefaultCode
	if stored, found, err := store.Get(ctx, choices.KeyLanguage); err != nil {
		logger.Warn("loading language failed, using default", zap.Error(err))
	} else if found && table.Has(stored) {
		lang = stored
	}
	return &Wheel{
		eng: engine{
			driver:  animation.NewDriver(opts.Easing, logger),
			sampler: sampler,
			profile: opts.Profile,
		},
		list:         choices.Load(ctx, store, table.Lookup(lang).DefaultOptions(), logger),
		store:        store,
		table:        table,
		lang:         lang,
		pointer:      opts.Pointer,
		origin:       opts.Origin,
		logger:       logger,
		lastSelected: -1,
	}
}

func (w *Wheel) dial(n int) rotation.Wheel {
	return rotation.Wheel{Sectors: n, Pointer: w.pointer, Origin: w.origin}
}

// Spin picks the winning sector and starts the animation toward it. A spin
// whose duration has already elapsed unobserved is completed first.
//
// Postcondition: Returns false with no state change when the list is empty or
// a spin is still running. Otherwise the shown result is cleared and the
// wheel is Running.
func (w *Wheel) Spin(now time.Time) (animation.Session, bool) {
	w.mu.Lock()
	settled := w.completeLocked(w.eng.settle(now))
	s, ok := w.spinLocked(now)
	fns := w.eng.snapshotListeners()
	w.mu.Unlock()
	emit(fns, settled)
	return s, ok
}

func (w *Wheel) spinLocked(now time.Time) (animation.Session, bool) {
	if w.eng.running() {
		return animation.Session{}, false
	}
	labels := w.list.Snapshot()
	idx, ok := w.eng.sampler.Pick(len(labels))
	if !ok {
		return animation.Session{}, false
	}
	s, ok := w.eng.trigger(now, w.dial(len(labels)), idx)
	if !ok {
		return animation.Session{}, false
	}
	w.spin = labels
	w.result, w.hasResult = "", false
	w.logger.Info("wheel spin",
		zap.String("session", s.ID.String()),
		zap.Int("options", len(labels)),
		zap.Duration("duration", s.Duration),
	)
	return s, true
}

// Tick advances the animation to now.
//
// Postcondition: Returns a non-nil Result exactly once per completed spin.
func (w *Wheel) Tick(now time.Time) (animation.Frame, *Result) {
	w.mu.Lock()
	f, c := w.eng.driver.Tick(now)
	r := w.completeLocked(c)
	fns := w.eng.snapshotListeners()
	w.mu.Unlock()
	emit(fns, r)
	return f, r
}

// Run drives session id from a ticker until it completes or is superseded.
//
// Postcondition: Returns the Result for id, or nil if it was reset or ctx ended first.
func (w *Wheel) Run(ctx context.Context, id uuid.UUID, interval time.Duration, onFrame func(animation.Frame)) *Result {
	return w.eng.run(ctx, &w.mu, id, interval, w.completeLocked, onFrame)
}

// Settle completes a spin whose duration elapsed by now without being
// ticked, so readers never see a finished spin as still running.
//
// Postcondition: Returns the Result if this call completed the spin, else nil.
func (w *Wheel) Settle(now time.Time) *Result {
	w.mu.Lock()
	r := w.completeLocked(w.eng.settle(now))
	fns := w.eng.snapshotListeners()
	w.mu.Unlock()
	emit(fns, r)
	return r
}

func (w *Wheel) completeLocked(c *animation.Completion) *Result {
	if !w.eng.accept(c) {
		return nil
	}
	labels := w.spin
	w.spin = nil
	selected := w.dial(len(labels)).SectorAt(c.Rotation)
	if selected != c.Session.Chosen {
		w.logger.Error("wheel landed off the chosen sector",
			zap.Int("chosen", c.Session.Chosen),
			zap.Int("selected", selected),
			zap.Float64("rotation", c.Rotation),
		)
	}
	w.lastSelected = selected
	w.result, w.hasResult = labels[selected], true
	w.logger.Info("wheel result",
		zap.String("session", c.Session.ID.String()),
		zap.Int("index", selected),
		zap.String("label", w.result),
	)
	return w.eng.finish(&Result{Widget: KindWheel, SessionID: c.Session.ID, Index: selected, Label: w.result})
}

// Add appends an option.
//
// Postcondition: Returns choices.ErrEmptyLabel or choices.ErrLabelTooLong for
// an invalid label; otherwise the option is appended and persisted.
func (w *Wheel) Add(ctx context.Context, label string) error {
	return w.list.Append(ctx, label)
}

// RemoveAt deletes option i. Out-of-range indices are a no-op.
// A successful removal forgets the last selected sector, since indices shift.
func (w *Wheel) RemoveAt(ctx context.Context, i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.list.RemoveAt(ctx, i) {
		return false
	}
	w.lastSelected = -1
	return true
}

// RemoveSelectedAndContinue deletes the last selected option, if it is still
// in range, and dismisses the shown result either way.
//
// Postcondition: lastSelected is -1 and no result is shown.
func (w *Wheel) RemoveSelectedAndContinue(ctx context.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	removed := false
	if w.lastSelected >= 0 {
		removed = w.list.RemoveAt(ctx, w.lastSelected)
	}
	w.lastSelected = -1
	w.result, w.hasResult = "", false
	return removed
}

// DismissResult hides the shown result without touching the list.
func (w *Wheel) DismissResult() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result, w.hasResult = "", false
}

// Reset restores the active language's default options, returns the wheel
// to rotation 0 and abandons any running spin.
func (w *Wheel) Reset(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.eng.reset()
	w.spin = nil
	w.list.Reset(ctx, w.table.Lookup(w.lang).DefaultOptions())
	w.lastSelected = -1
	w.result, w.hasResult = "", false
	w.logger.Info("wheel reset", zap.String("language", w.lang))
}

// SetLanguage switches the label language and persists the choice. If no
// option list was ever stored, the list is replaced by the new language's
// defaults. Unknown codes resolve to locale.DefaultCode.
//
// Postcondition: Returns the code actually applied.
func (w *Wheel) SetLanguage(ctx context.Context, code string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.table.Has(code) {
		code = locale.DefaultCode
	}
	w.lang = code
	adopted := w.list.AdoptDefaults(ctx, w.table.Lookup(code).DefaultOptions(), map[string]string{choices.KeyLanguage: code})
	if !adopted {
		if err := w.store.Set(ctx, choices.KeyLanguage, code); err != nil {
			w.logger.Warn("saving language failed", zap.Error(err))
		}
	}
	return code
}

// Language returns the active locale code.
func (w *Wheel) Language() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lang
}

// Subscribe registers fn to receive every wheel result.
func (w *Wheel) Subscribe(fn Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.eng.listeners = append(w.eng.listeners, fn)
}

// View returns a copy of the presentable state.
func (w *Wheel) View() WheelView {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := WheelView{
		Language:     w.lang,
		Labels:       w.list.Snapshot(),
		Rotation:     w.eng.driver.Rotation(),
		State:        w.eng.driver.State(),
		Result:       w.result,
		HasResult:    w.hasResult,
		LastSelected: w.lastSelected,
	}
	if w.spin != nil {
		v.Spinning = append([]string(nil), w.spin...)
	}
	return v
}

// Geometry returns the dial for n sectors with this wheel's pointer settings.
func (w *Wheel) Geometry(n int) rotation.Wheel {
	return w.dial(n)
}
