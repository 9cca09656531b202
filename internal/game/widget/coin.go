package widget

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/locale"
	"github.com/cory-johannsen/fortune/internal/game/rotation"
)

// CoinView is a point-in-time copy of a coin's presentable state.
type CoinView struct {
	Rotation  float64
	State     animation.State
	Result    string
	HasResult bool
	Face      int
}

// Coin is the controller for the heads-or-tails flip.
type Coin struct {
	mu     sync.Mutex
	eng    engine
	loc    *locale.Locale
	logger *zap.Logger

	result    string
	hasResult bool
	face      int
}

// NewCoin returns an idle coin showing heads.
//
// Precondition: sampler, loc and logger must be non-nil.
func NewCoin(sampler *dice.Sampler, loc *locale.Locale, opts DialOptions, logger *zap.Logger) *Coin {
	return &Coin{
		eng: engine{
			driver:  animation.NewDriver(opts.Easing, logger),
			sampler: sampler,
			profile: opts.Profile,
		},
		loc:    loc,
		logger: logger,
	}
}

// Flip picks a face and starts the animation toward it. A flip whose
// duration has already elapsed unobserved is completed first.
//
// Postcondition: Returns false with no state change when a flip is still
// running. Otherwise the shown result is cleared and the coin is Running.
func (c *Coin) Flip(now time.Time) (animation.Session, bool) {
	c.mu.Lock()
	settled := c.completeLocked(c.eng.settle(now))
	s, ok := c.flipLocked(now)
	fns := c.eng.snapshotListeners()
	c.mu.Unlock()
	emit(fns, settled)
	return s, ok
}

func (c *Coin) flipLocked(now time.Time) (animation.Session, bool) {
	if c.eng.running() {
		return animation.Session{}, false
	}
	face := rotation.Tails
	if c.eng.sampler.Flip() {
		face = rotation.Heads
	}
	s, ok := c.eng.trigger(now, rotation.Coin{}, face)
	if !ok {
		return animation.Session{}, false
	}
	c.result, c.hasResult = "", false
	c.logger.Info("coin flip", zap.String("session", s.ID.String()), zap.Duration("duration", s.Duration))
	return s, true
}

// Tick advances the animation to now.
//
// Postcondition: Returns a non-nil Result exactly once per completed flip.
func (c *Coin) Tick(now time.Time) (animation.Frame, *Result) {
	c.mu.Lock()
	f, done := c.eng.driver.Tick(now)
	r := c.completeLocked(done)
	fns := c.eng.snapshotListeners()
	c.mu.Unlock()
	emit(fns, r)
	return f, r
}

// Run drives session id from a ticker until it completes or is superseded.
func (c *Coin) Run(ctx context.Context, id uuid.UUID, interval time.Duration, onFrame func(animation.Frame)) *Result {
	return c.eng.run(ctx, &c.mu, id, interval, c.completeLocked, onFrame)
}

// Settle completes a flip whose duration elapsed by now without being ticked.
func (c *Coin) Settle(now time.Time) *Result {
	c.mu.Lock()
	r := c.completeLocked(c.eng.settle(now))
	fns := c.eng.snapshotListeners()
	c.mu.Unlock()
	emit(fns, r)
	return r
}

func (c *Coin) completeLocked(done *animation.Completion) *Result {
	if !c.eng.accept(done) {
		return nil
	}
	c.face = rotation.Coin{}.FaceAt(done.Rotation)
	c.result, c.hasResult = c.loc.Face(c.face), true
	c.logger.Info("coin result", zap.String("session", done.Session.ID.String()), zap.Int("face", c.face))
	return c.eng.finish(&Result{Widget: KindCoin, SessionID: done.Session.ID, Index: c.face, Label: c.result})
}

// Reset returns the coin to 0 degrees, clears the result and abandons any flip.
func (c *Coin) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eng.reset()
	c.result, c.hasResult = "", false
	c.face = rotation.Heads
}

// SetLocale switches the face labels. A shown result is re-labelled.
func (c *Coin) SetLocale(loc *locale.Locale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loc = loc
	if c.hasResult {
		c.result = loc.Face(c.face)
	}
}

// Subscribe registers fn to receive every coin result.
func (c *Coin) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eng.listeners = append(c.eng.listeners, fn)
}

// View returns a copy of the presentable state.
func (c *Coin) View() CoinView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CoinView{
		Rotation:  c.eng.driver.Rotation(),
		State:     c.eng.driver.State(),
		Result:    c.result,
		HasResult: c.hasResult,
		Face:      c.face,
	}
}
