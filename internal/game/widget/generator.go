package widget

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/dice"
)

// NumberView is a point-in-time copy of the range generator's state.
type NumberView struct {
	Value    int
	HasValue bool
	// Invalid is set by the last rejected request and cleared by the next success.
	Invalid bool
}

// Generator is the controller for the bounded random-number widget.
type Generator struct {
	mu        sync.Mutex
	sampler   *dice.Sampler
	logger    *zap.Logger
	value     int
	hasValue  bool
	invalid   bool
	listeners []Listener
}

// NewGenerator returns a Generator with no value shown.
//
// Precondition: sampler and logger must be non-nil.
func NewGenerator(sampler *dice.Sampler, logger *zap.Logger) *Generator {
	return &Generator{sampler: sampler, logger: logger}
}

// Generate draws a uniform integer in [min, max].
//
// Postcondition: Returns dice.ErrInvalidRange when min > max; the last value
// is kept and the invalid indicator is raised. Otherwise the value is shown
// and delivered to subscribers.
func (g *Generator) Generate(min, max int) (int, error) {
	g.mu.Lock()
	v, err := g.sampler.Between(min, max)
	if err != nil {
		g.invalid = true
		g.mu.Unlock()
		g.logger.Debug("range rejected", zap.Int("min", min), zap.Int("max", max))
		return 0, err
	}
	g.value, g.hasValue, g.invalid = v, true, false
	fns := make([]Listener, len(g.listeners))
	copy(fns, g.listeners)
	g.mu.Unlock()

	emit(fns, &Result{Widget: KindNumber, Value: v, Label: strconv.Itoa(v)})
	return v, nil
}

// GenerateText parses both bounds as base-10 integers and calls Generate.
// An unparsable bound is reported as dice.ErrInvalidRange.
func (g *Generator) GenerateText(minText, maxText string) (int, error) {
	min, err1 := strconv.Atoi(strings.TrimSpace(minText))
	max, err2 := strconv.Atoi(strings.TrimSpace(maxText))
	if err1 != nil || err2 != nil {
		g.mu.Lock()
		g.invalid = true
		g.mu.Unlock()
		return 0, fmt.Errorf("%w: bounds must be whole numbers, got %q and %q", dice.ErrInvalidRange, minText, maxText)
	}
	return g.Generate(min, max)
}

// Subscribe registers fn to receive every generated number.
func (g *Generator) Subscribe(fn Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// View returns a copy of the presentable state.
func (g *Generator) View() NumberView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return NumberView{Value: g.value, HasValue: g.hasValue, Invalid: g.invalid}
}
