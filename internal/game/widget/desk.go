package widget

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/locale"
)

// Options configures every widget on a desk.
type Options struct {
	Wheel WheelOptions
	Coin  DialOptions
}

// Desk groups the three widgets owned by one user and keeps their language in step.
type Desk struct {
	Wheel  *Wheel
	Coin   *Coin
	Number *Generator
	table  *locale.Table
}

// NewDesk restores a desk for one profile.
//
// Precondition: store, table, sampler and logger must be non-nil.
func NewDesk(ctx context.Context, store choices.Store, table *locale.Table, sampler *dice.Sampler, opts Options, logger *zap.Logger) *Desk {
	w := NewWheel(ctx, store, table, sampler, opts.Wheel, logger.With(zap.String("widget", string(KindWheel))))
	return &Desk{
		Wheel:  w,
		Coin:   NewCoin(sampler, table.Lookup(w.Language()), opts.Coin, logger.With(zap.String("widget", string(KindCoin)))),
		Number: NewGenerator(sampler, logger.With(zap.String("widget", string(KindNumber)))),
		table:  table,
	}
}

// Locale returns the active label set.
func (d *Desk) Locale() *locale.Locale {
	return d.table.Lookup(d.Wheel.Language())
}

// SetLanguage switches every widget to code and returns the code applied.
func (d *Desk) SetLanguage(ctx context.Context, code string) string {
	applied := d.Wheel.SetLanguage(ctx, code)
	d.Coin.SetLocale(d.table.Lookup(applied))
	return applied
}

// Settle completes any wheel spin or coin flip whose duration elapsed by now.
// Readers call it before rendering so an unobserved animation is shown finished.
func (d *Desk) Settle(now time.Time) {
	d.Wheel.Settle(now)
	d.Coin.Settle(now)
}

// Table returns the locale table the desk draws labels from.
func (d *Desk) Table() *locale.Table {
	return d.table
}
