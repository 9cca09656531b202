// Package widget holds the per-desk controllers for the wheel, the coin and
// the range generator.
//
// Each controller owns its state behind one mutex. Animation frames may be
// driven from a ticker goroutine while commands arrive from the input loop;
// results are delivered to subscribers exactly once, after the controller's
// lock is released.
package widget

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/rotation"
)

// Kind identifies which widget produced a Result.
type Kind string

const (
	KindWheel  Kind = "wheel"
	KindCoin   Kind = "coin"
	KindNumber Kind = "number"
)

// Result is a completed outcome.
type Result struct {
	Widget    Kind
	SessionID uuid.UUID
	// Index is the wheel sector or coin face. Unused for KindNumber.
	Index int
	// Value is the generated number. Unused for KindWheel and KindCoin.
	Value int
	Label string
}

// Listener receives results. It is called without any controller lock held.
type Listener func(Result)

// DialOptions configures an animated widget.
type DialOptions struct {
	Profile animation.Profile
	Easing  animation.Easing
}

// engine is the animation bookkeeping shared by the wheel and the coin.
// Callers hold the owning widget's mutex for every method.
type engine struct {
	driver    *animation.Driver
	sampler   *dice.Sampler
	profile   animation.Profile
	active    uuid.UUID
	listeners []Listener
	// last is the most recent result, kept so a ticker that lost the race
	// to another caller can still report its session's outcome.
	last *Result
}

func (e *engine) trigger(now time.Time, dial rotation.Dial, chosen int) (animation.Session, bool) {
	turns := max(1, e.sampler.Turns(e.profile.MinTurns, e.profile.MaxTurns))
	dur := e.profile.Duration(turns, e.sampler.Jitter(e.profile.Jitter))
	s, ok := e.driver.Trigger(now, dial, chosen, turns, dur)
	if ok {
		e.active = s.ID
	}
	return s, ok
}

// accept reports whether c belongs to the session this widget is waiting on
// and, if so, consumes it. Completions for sessions abandoned by reset are refused.
func (e *engine) accept(c *animation.Completion) bool {
	if c == nil || e.active == uuid.Nil || c.Session.ID != e.active {
		return false
	}
	e.active = uuid.Nil
	return true
}

// settle completes a session whose full duration elapsed by now without
// anyone ticking it, e.g. after the client driving it went away.
func (e *engine) settle(now time.Time) *animation.Completion {
	s, ok := e.driver.Session()
	if !ok || now.Before(s.StartedAt.Add(s.Duration)) {
		return nil
	}
	_, c := e.driver.Tick(now)
	return c
}

// finish records a copy of r as the latest result.
func (e *engine) finish(r *Result) *Result {
	cp := *r
	e.last = &cp
	return r
}

// run ticks session id every interval. Each tick and its completion run
// under mu, the owning widget's lock; listeners and onFrame are called
// after it is released, listeners first.
//
// Postcondition: Returns the Result for id, including one produced by
// another caller, or nil if id was reset or ctx ended first.
func (e *engine) run(ctx context.Context, mu *sync.Mutex, id uuid.UUID, interval time.Duration,
	complete func(*animation.Completion) *Result, onFrame func(animation.Frame)) *Result {
	var out *Result
	animation.Loop(ctx, interval, nil, func(now time.Time) bool {
		mu.Lock()
		f, c, ok := e.driver.TickSession(id, now)
		if !ok {
			if e.last != nil && e.last.SessionID == id {
				r := *e.last
				out = &r
			}
			mu.Unlock()
			return true
		}
		r := complete(c)
		fns := e.snapshotListeners()
		mu.Unlock()

		emit(fns, r)
		if onFrame != nil {
			onFrame(f)
		}
		if c == nil {
			return false
		}
		out = r
		return true
	})
	return out
}

func (e *engine) reset() {
	e.driver.Reset()
	e.active = uuid.Nil
}

func (e *engine) running() bool {
	return e.driver.State() == animation.Running
}

func (e *engine) snapshotListeners() []Listener {
	out := make([]Listener, len(e.listeners))
	copy(out, e.listeners)
	return out
}

func emit(fns []Listener, r *Result) {
	if r == nil {
		return
	}
	for _, fn := range fns {
		fn(*r)
	}
}
