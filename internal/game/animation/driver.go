// Package animation drives a rotating dial from rest to a chosen outcome.
//
// A Driver is an explicit state machine: IDLE -> RUNNING -> IDLE. It never
// schedules anything itself; callers advance it with Tick, either from their
// own loop or through Run.
package animation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/rotation"
)

// State is the driver's lifecycle phase.
type State int

const (
	Idle State = iota
	Running
)

// String returns the lowercase state name.
func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Session is one in-flight animation toward a pre-chosen outcome.
type Session struct {
	ID        uuid.UUID
	Start     float64
	Target    float64
	StartedAt time.Time
	Duration  time.Duration
	Chosen    int
	Turns     int
}

// Frame is the interpolated state published on every tick.
type Frame struct {
	SessionID uuid.UUID
	Rotation  float64
	Progress  float64
}

// Completion is emitted exactly once when a session reaches its target.
type Completion struct {
	Session  Session
	Rotation float64
}

// Driver owns the rotation of one dial and at most one running Session.
//
// Invariant: state == Running iff session != nil.
type Driver struct {
	mu       sync.Mutex
	ease     Easing
	logger   *zap.Logger
	rotation float64
	state    State
	session  *Session
}

// NewDriver creates an idle Driver at rotation 0.
//
// Precondition: logger must be non-nil. A nil ease selects EaseOutCubic.
func NewDriver(ease Easing, logger *zap.Logger) *Driver {
	if ease == nil {
		ease = EaseOutCubic
	}
	return &Driver{ease: ease, logger: logger}
}

// Trigger starts a session that comes to rest on outcome chosen of dial after
// turns extra revolutions.
//
// Precondition: 0 <= chosen < dial.Positions(); turns >= 1.
// Postcondition: Returns false and leaves any running session untouched when
// the driver is already Running. Otherwise the driver is Running and the
// returned Session has Target > Start.
func (d *Driver) Trigger(now time.Time, dial rotation.Dial, chosen, turns int, duration time.Duration) (Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Running {
		d.logger.Debug("trigger ignored while running", zap.String("session", d.session.ID.String()))
		return Session{}, false
	}
	s := Session{
		ID:        uuid.New(),
		Start:     d.rotation,
		Target:    rotation.Target(dial, d.rotation, chosen, turns),
		StartedAt: now,
		Duration:  duration,
		Chosen:    chosen,
		Turns:     turns,
	}
	d.session = &s
	d.state = Running
	d.logger.Debug("animation started",
		zap.String("session", s.ID.String()),
		zap.Int("chosen", chosen),
		zap.Int("turns", turns),
		zap.Float64("start", s.Start),
		zap.Float64("target", s.Target),
		zap.Duration("duration", duration),
	)
	return s, true
}

// Tick advances the running session to now.
//
// Postcondition: Returns a non-nil Completion exactly once per session, on the
// first tick at or after StartedAt+Duration. When idle the current rotation is
// returned with Progress 1 and no Completion.
func (d *Driver) Tick(now time.Time) (Frame, *Completion) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickLocked(now)
}

// TickSession advances the driver only if id is still the running session.
// ok is false once the session has completed or been superseded by Reset.
func (d *Driver) TickSession(id uuid.UUID, now time.Time) (f Frame, c *Completion, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil || d.session.ID != id {
		return Frame{Rotation: d.rotation, Progress: 1}, nil, false
	}
	f, c = d.tickLocked(now)
	return f, c, true
}

func (d *Driver) tickLocked(now time.Time) (Frame, *Completion) {
	if d.state != Running {
		return Frame{Rotation: d.rotation, Progress: 1}, nil
	}
	s := d.session
	t := 1.0
	if s.Duration > 0 {
		t = float64(now.Sub(s.StartedAt)) / float64(s.Duration)
	}
	if t < 1 {
		d.rotation = s.Start + (s.Target-s.Start)*d.ease(t)
		return Frame{SessionID: s.ID, Rotation: d.rotation, Progress: clamp01(t)}, nil
	}

	d.rotation = rotation.Normalize(s.Target)
	d.state = Idle
	d.session = nil
	d.logger.Debug("animation completed",
		zap.String("session", s.ID.String()),
		zap.Int("chosen", s.Chosen),
		zap.Float64("rotation", d.rotation),
	)
	return Frame{SessionID: s.ID, Rotation: d.rotation, Progress: 1}, &Completion{Session: *s, Rotation: d.rotation}
}

// Reset abandons any running session and returns the dial to rotation 0.
//
// Postcondition: state is Idle; rotation is 0; no Completion will ever be
// produced for the abandoned session.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		d.logger.Debug("animation abandoned", zap.String("session", d.session.ID.String()))
	}
	d.rotation = 0
	d.state = Idle
	d.session = nil
}

// Rotation returns the current rotation in degrees.
func (d *Driver) Rotation() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rotation
}

// State returns the current lifecycle phase.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Session returns a copy of the running session, if any.
func (d *Driver) Session() (Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return Session{}, false
	}
	return *d.session, true
}

// Run ticks session id every interval until it completes, is superseded, or
// ctx is done. onFrame receives every interpolated frame, the final one
// included. A nil clock selects time.Now.
//
// Precondition: interval > 0.
// Postcondition: Returns the Completion for id, or nil if the session was
// abandoned or ctx ended first.
func (d *Driver) Run(ctx context.Context, id uuid.UUID, interval time.Duration, clock func() time.Time, onFrame func(Frame)) *Completion {
	var out *Completion
	Loop(ctx, interval, clock, func(now time.Time) bool {
		f, c, ok := d.TickSession(id, now)
		if !ok {
			return true
		}
		if onFrame != nil {
			onFrame(f)
		}
		out = c
		return c != nil
	})
	return out
}

// Loop calls step with the clock reading on every tick of interval until
// step returns true or ctx is done. A nil clock selects time.Now.
//
// Precondition: interval > 0.
// Postcondition: Returns true if step finished the loop, false if ctx did.
func Loop(ctx context.Context, interval time.Duration, clock func() time.Time, step func(now time.Time) bool) bool {
	if clock == nil {
		clock = time.Now
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if step(clock()) {
				return true
			}
		}
	}
}
