package widget_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/choices"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/locale"
	"github.com/cory-johannsen/fortune/internal/game/rotation"
	"github.com/cory-johannsen/fortune/internal/game/widget"
	"github.com/cory-johannsen/fortune/internal/storage/memory"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// scriptedSource answers Intn from a queue, then with zero.
type scriptedSource struct {
	mu   sync.Mutex
	vals []int
}

func (s *scriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v % n
}

func (s *scriptedSource) push(vals ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals = append(s.vals, vals...)
}

var testProfile = animation.Profile{MinTurns: 2, MaxTurns: 4, Base: time.Second, PerTurn: 100 * time.Millisecond, Jitter: 0, Max: 3 * time.Second}

func wheelOpts() widget.WheelOptions {
	return widget.WheelOptions{
		DialOptions: widget.DialOptions{Profile: testProfile},
		Pointer:     rotation.DefaultPointer,
		Origin:      rotation.DefaultOrigin,
	}
}

func newWheel(t *testing.T, store choices.Store, src dice.Source) *widget.Wheel {
	logger := zaptest.NewLogger(t)
	return widget.NewWheel(context.Background(), store, locale.Default(), dice.NewSampler(src, logger), wheelOpts(), logger)
}

// finish ticks far enough past the session's duration to complete it.
func finish(t *testing.T, tick func(time.Time) (animation.Frame, *widget.Result), s animation.Session) *widget.Result {
	t.Helper()
	_, r := tick(s.StartedAt.Add(s.Duration))
	return r
}

func TestWheel_StartsWithLocaleDefaults(t *testing.T) {
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{})
	v := w.View()
	assert.Equal(t, locale.DefaultCode, v.Language)
	assert.Equal(t, locale.Default().Lookup("eng").DefaultOptions(), v.Labels)
	assert.Equal(t, animation.Idle, v.State)
	assert.Equal(t, -1, v.LastSelected)
}

func TestWheel_SpinEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBackend().For("p")
	require.NoError(t, store.Set(ctx, choices.KeyOptions, `[]`))
	w := newWheel(t, store, &scriptedSource{})

	_, ok := w.Spin(epoch)
	assert.False(t, ok)
	assert.Equal(t, animation.Idle, w.View().State)
}

func TestWheel_SpinCompletesOnChosenSectorExactlyOnce(t *testing.T) {
	src := &scriptedSource{}
	w := newWheel(t, memory.NewBackend().For("p"), src)
	var got []widget.Result
	w.Subscribe(func(r widget.Result) { got = append(got, r) })

	src.push(4, 1) // sector 4, turns 2+1
	s, ok := w.Spin(epoch)
	require.True(t, ok)
	assert.Equal(t, 4, s.Chosen)
	assert.Equal(t, 3, s.Turns)
	assert.Equal(t, 1300*time.Millisecond, s.Duration)

	_, r := w.Tick(epoch.Add(s.Duration / 2))
	assert.Nil(t, r)
	assert.Equal(t, animation.Running, w.View().State)

	r = finish(t, w.Tick, s)
	require.NotNil(t, r)
	assert.Equal(t, widget.KindWheel, r.Widget)
	assert.Equal(t, 4, r.Index)
	assert.Equal(t, "Prize 5", r.Label)

	_, again := w.Tick(epoch.Add(10 * time.Second))
	assert.Nil(t, again)
	require.Len(t, got, 1)

	v := w.View()
	assert.True(t, v.HasResult)
	assert.Equal(t, "Prize 5", v.Result)
	assert.Equal(t, 4, v.LastSelected)
	assert.Equal(t, 4, w.Geometry(6).SectorAt(v.Rotation))
	assert.True(t, v.Rotation >= 0 && v.Rotation < rotation.FullTurn)
}

func TestWheel_SpinWhileRunningIsIgnored(t *testing.T) {
	src := &scriptedSource{}
	w := newWheel(t, memory.NewBackend().For("p"), src)
	src.push(2, 0)
	first, ok := w.Spin(epoch)
	require.True(t, ok)

	src.push(5, 2)
	_, ok = w.Spin(epoch.Add(100 * time.Millisecond))
	assert.False(t, ok)

	r := finish(t, w.Tick, first)
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Index)
}

func TestWheel_SpinUsesSnapshotOfLabels(t *testing.T) {
	ctx := context.Background()
	src := &scriptedSource{}
	w := newWheel(t, memory.NewBackend().For("p"), src)
	src.push(5)
	s, ok := w.Spin(epoch)
	require.True(t, ok)

	require.True(t, w.RemoveAt(ctx, 0))
	r := finish(t, w.Tick, s)
	require.NotNil(t, r)
	assert.Equal(t, "Prize 6", r.Label)
}

func TestWheel_RemoveSelectedAndContinue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBackend().For("p")
	require.NoError(t, store.Set(ctx, choices.KeyOptions, `["A","B","C"]`))
	src := &scriptedSource{}
	w := newWheel(t, store, src)

	src.push(1)
	s, ok := w.Spin(epoch)
	require.True(t, ok)
	r := finish(t, w.Tick, s)
	require.NotNil(t, r)
	assert.Equal(t, "B", r.Label)

	assert.True(t, w.RemoveSelectedAndContinue(ctx))
	v := w.View()
	assert.Equal(t, []string{"A", "C"}, v.Labels)
	assert.False(t, v.HasResult)
	assert.Empty(t, v.Result)
	assert.Equal(t, -1, v.LastSelected)

	assert.False(t, w.RemoveSelectedAndContinue(ctx), "nothing selected any more")
	assert.Equal(t, []string{"A", "C"}, w.View().Labels)
}

func TestWheel_RemoveSelectedAfterEditOnlyDismisses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBackend().For("p")
	require.NoError(t, store.Set(ctx, choices.KeyOptions, `["A","B","C"]`))
	src := &scriptedSource{}
	w := newWheel(t, store, src)

	src.push(2)
	s, _ := w.Spin(epoch)
	require.NotNil(t, finish(t, w.Tick, s))

	require.True(t, w.RemoveAt(ctx, 0))
	assert.False(t, w.RemoveSelectedAndContinue(ctx))
	assert.Equal(t, []string{"B", "C"}, w.View().Labels)
}

func TestWheel_ResetRestoresDefaultsAndRotation(t *testing.T) {
	ctx := context.Background()
	src := &scriptedSource{}
	w := newWheel(t, memory.NewBackend().For("p"), src)
	require.NoError(t, w.Add(ctx, "Extra"))
	src.push(3)
	s, _ := w.Spin(epoch)
	require.NotNil(t, finish(t, w.Tick, s))
	require.NotZero(t, w.View().Rotation)

	w.Reset(ctx)
	v := w.View()
	assert.Equal(t, locale.Default().Lookup("eng").DefaultOptions(), v.Labels)
	assert.Equal(t, 0.0, v.Rotation)
	assert.False(t, v.HasResult)
	assert.Equal(t, -1, v.LastSelected)
}

func TestWheel_ResetSupersedesRunningSpin(t *testing.T) {
	ctx := context.Background()
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{})
	calls := 0
	w.Subscribe(func(widget.Result) { calls++ })

	s, ok := w.Spin(epoch)
	require.True(t, ok)
	w.Reset(ctx)

	_, r := w.Tick(s.StartedAt.Add(s.Duration))
	assert.Nil(t, r)
	assert.Zero(t, calls)
	assert.Equal(t, 0.0, w.View().Rotation)
}

func TestWheel_ResetSupersedesRun(t *testing.T) {
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{})
	s, ok := w.Spin(time.Now())
	require.True(t, ok)

	done := make(chan *widget.Result, 1)
	go func() { done <- w.Run(context.Background(), s.ID, 2*time.Millisecond, nil) }()
	time.Sleep(10 * time.Millisecond)
	w.Reset(context.Background())

	select {
	case r := <-done:
		assert.Nil(t, r)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Reset")
	}
}

func TestWheel_RunDeliversResult(t *testing.T) {
	logger := zaptest.NewLogger(t)
	opts := wheelOpts()
	opts.Profile = animation.Profile{MinTurns: 1, MaxTurns: 1, Base: 30 * time.Millisecond}
	w := widget.NewWheel(context.Background(), memory.NewBackend().For("p"), locale.Default(),
		dice.NewSampler(dice.NewPCGSource(9), logger), opts, logger)

	s, ok := w.Spin(time.Now())
	require.True(t, ok)
	frames := 0
	r := w.Run(context.Background(), s.ID, 5*time.Millisecond, func(animation.Frame) { frames++ })
	require.NotNil(t, r)
	assert.Equal(t, s.Chosen, r.Index)
	assert.Positive(t, frames)
}

func TestWheel_SpinFromFinalFrameKeepsResult(t *testing.T) {
	logger := zaptest.NewLogger(t)
	opts := wheelOpts()
	opts.Profile = animation.Profile{MinTurns: 1, MaxTurns: 1, Base: 20 * time.Millisecond}
	w := widget.NewWheel(context.Background(), memory.NewBackend().For("p"), locale.Default(),
		dice.NewSampler(dice.NewPCGSource(3), logger), opts, logger)
	var got []widget.Result
	w.Subscribe(func(r widget.Result) { got = append(got, r) })

	first, ok := w.Spin(time.Now())
	require.True(t, ok)
	var next animation.Session
	respun := false
	r := w.Run(context.Background(), first.ID, 2*time.Millisecond, func(f animation.Frame) {
		if f.Progress >= 1 && !respun {
			next, respun = w.Spin(time.Now())
		}
	})

	require.NotNil(t, r)
	assert.Equal(t, first.ID, r.SessionID)
	assert.Equal(t, first.Chosen, r.Index)
	require.True(t, respun)
	assert.NotEqual(t, first.ID, next.ID)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].SessionID)
	assert.Equal(t, animation.Running, w.View().State)
}

func TestWheel_RunReportsResultCompletedByTick(t *testing.T) {
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{vals: []int{2, 0}})
	calls := 0
	w.Subscribe(func(widget.Result) { calls++ })

	s, ok := w.Spin(time.Now())
	require.True(t, ok)
	ticked := finish(t, w.Tick, s)
	require.NotNil(t, ticked)

	r := w.Run(context.Background(), s.ID, time.Millisecond, nil)
	require.NotNil(t, r)
	assert.Equal(t, *ticked, *r)
	assert.Equal(t, 1, calls)
}

func TestWheel_SettleCompletesElapsedSpin(t *testing.T) {
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{vals: []int{1, 0}})
	s, ok := w.Spin(epoch)
	require.True(t, ok)

	assert.Nil(t, w.Settle(epoch.Add(s.Duration-time.Millisecond)))
	assert.Equal(t, animation.Running, w.View().State)

	r := w.Settle(epoch.Add(s.Duration))
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Index)
	v := w.View()
	assert.Equal(t, animation.Idle, v.State)
	assert.Empty(t, v.Spinning)
	assert.True(t, v.HasResult)
	assert.Equal(t, r.Label, v.Result)
	assert.Nil(t, w.Settle(epoch.Add(2*s.Duration)))
}

func TestWheel_LanguageChangeAdoptsDefaultsWhenNeverStored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBackend().For("p")
	w := newWheel(t, store, &scriptedSource{})

	assert.Equal(t, "ru", w.SetLanguage(ctx, "ru"))
	assert.Equal(t, "Приз 1", w.View().Labels[0])

	lang, found, err := store.Get(ctx, choices.KeyLanguage)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ru", lang)

	// Stored now, so the next switch keeps the list.
	w.SetLanguage(ctx, "ja")
	assert.Equal(t, "Приз 1", w.View().Labels[0])
	lang, _, _ = store.Get(ctx, choices.KeyLanguage)
	assert.Equal(t, "ja", lang)
}

func TestWheel_LanguageChangeKeepsEditedList(t *testing.T) {
	ctx := context.Background()
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{})
	require.NoError(t, w.Add(ctx, "Mine"))
	w.SetLanguage(ctx, "ua")
	assert.Contains(t, w.View().Labels, "Mine")
	assert.Equal(t, "Prize 1", w.View().Labels[0])

	w.Reset(ctx)
	assert.Equal(t, "Приз 1", w.View().Labels[0], "reset uses the active language")
}

func TestWheel_UnknownLanguageFallsBack(t *testing.T) {
	w := newWheel(t, memory.NewBackend().For("p"), &scriptedSource{})
	assert.Equal(t, locale.DefaultCode, w.SetLanguage(context.Background(), "klingon"))
}

func TestWheel_RestoresLanguageAndOptions(t *testing.T) {
	ctx := context.Background()
	b := memory.NewBackend()
	first := newWheel(t, b.For("p"), &scriptedSource{})
	first.SetLanguage(ctx, "ua")
	require.NoError(t, first.Add(ctx, "Кава"))

	second := newWheel(t, b.For("p"), &scriptedSource{})
	v := second.View()
	assert.Equal(t, "ua", v.Language)
	assert.Equal(t, "Кава", v.Labels[len(v.Labels)-1])

	other := newWheel(t, b.For("q"), &scriptedSource{})
	assert.Equal(t, locale.DefaultCode, other.View().Language)
}

func newCoin(t *testing.T, src dice.Source, code string) *widget.Coin {
	logger := zaptest.NewLogger(t)
	return widget.NewCoin(dice.NewSampler(src, logger), locale.Default().Lookup(code),
		widget.DialOptions{Profile: animation.CoinProfile}, logger)
}

func TestCoin_FacesLandOnCanonicalAngles(t *testing.T) {
	for _, tc := range []struct {
		draw  int
		face  int
		angle float64
		label string
	}{
		{0, rotation.Heads, 0, "Heads"},
		{1, rotation.Tails, 180, "Tails"},
	} {
		src := &scriptedSource{}
		c := newCoin(t, src, "eng")
		src.push(tc.draw)
		s, ok := c.Flip(epoch)
		require.True(t, ok)
		r := finish(t, c.Tick, s)
		require.NotNil(t, r)
		assert.Equal(t, tc.face, r.Index)
		assert.Equal(t, tc.label, r.Label)
		assert.InDelta(t, 0.0, rotation.Distance(c.View().Rotation, tc.angle), 1e-6)
	}
}

func TestCoin_FlipDurationCapped(t *testing.T) {
	src := &scriptedSource{}
	c := newCoin(t, src, "eng")
	src.push(0, 4, 600) // heads, 10 turns, full jitter
	s, ok := c.Flip(epoch)
	require.True(t, ok)
	assert.Equal(t, 10, s.Turns)
	assert.Equal(t, 3500*time.Millisecond, s.Duration)
	assert.LessOrEqual(t, s.Duration, animation.CoinProfile.Max)
}

func TestCoin_ReentrantFlipIgnored(t *testing.T) {
	c := newCoin(t, &scriptedSource{}, "eng")
	s, ok := c.Flip(epoch)
	require.True(t, ok)
	_, ok = c.Flip(epoch.Add(time.Millisecond))
	assert.False(t, ok)
	require.NotNil(t, finish(t, c.Tick, s))
}

func TestCoin_ResetAbandonsFlip(t *testing.T) {
	c := newCoin(t, &scriptedSource{vals: []int{1}}, "eng")
	s, _ := c.Flip(epoch)
	c.Reset()
	_, r := c.Tick(s.StartedAt.Add(s.Duration))
	assert.Nil(t, r)
	v := c.View()
	assert.Equal(t, 0.0, v.Rotation)
	assert.False(t, v.HasResult)
}

func TestCoin_SetLocaleRelabelsResult(t *testing.T) {
	c := newCoin(t, &scriptedSource{vals: []int{1}}, "eng")
	s, _ := c.Flip(epoch)
	require.NotNil(t, finish(t, c.Tick, s))
	c.SetLocale(locale.Default().Lookup("ja"))
	assert.Equal(t, "裏", c.View().Result)
}

func newGenerator(t *testing.T) *widget.Generator {
	logger := zaptest.NewLogger(t)
	return widget.NewGenerator(dice.NewSampler(dice.NewPCGSource(77), logger), logger)
}

func TestGenerator_SinglePointRange(t *testing.T) {
	g := newGenerator(t)
	v, err := g.Generate(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, widget.NumberView{Value: 5, HasValue: true}, g.View())
}

func TestGenerator_InvertedRangeKeepsValue(t *testing.T) {
	g := newGenerator(t)
	_, err := g.Generate(3, 3)
	require.NoError(t, err)

	_, err = g.Generate(10, 1)
	assert.ErrorIs(t, err, dice.ErrInvalidRange)
	v := g.View()
	assert.True(t, v.Invalid)
	assert.Equal(t, 3, v.Value)

	_, err = g.Generate(1, 2)
	require.NoError(t, err)
	assert.False(t, g.View().Invalid)
}

func TestGenerator_GenerateText(t *testing.T) {
	g := newGenerator(t)
	v, err := g.GenerateText(" 1 ", "6")
	require.NoError(t, err)
	assert.True(t, v >= 1 && v <= 6)

	_, err = g.GenerateText("one", "6")
	assert.ErrorIs(t, err, dice.ErrInvalidRange)
	assert.True(t, g.View().Invalid)
}

func TestGenerator_Subscribe(t *testing.T) {
	g := newGenerator(t)
	var got []widget.Result
	g.Subscribe(func(r widget.Result) { got = append(got, r) })
	_, _ = g.Generate(7, 7)
	_, _ = g.Generate(9, 1)
	require.Len(t, got, 1)
	assert.Equal(t, widget.KindNumber, got[0].Widget)
	assert.Equal(t, "7", got[0].Label)
}

func TestDesk_SetLanguageUpdatesCoin(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	d := widget.NewDesk(ctx, memory.NewBackend().For("p"), locale.Default(),
		dice.NewSampler(&scriptedSource{}, logger), widget.Options{Wheel: wheelOpts(), Coin: widget.DialOptions{Profile: testProfile}}, logger)

	assert.Equal(t, "ru", d.SetLanguage(ctx, "ru"))
	assert.Equal(t, "ru", d.Locale().Code)

	s, ok := d.Coin.Flip(epoch)
	require.True(t, ok)
	r := finish(t, d.Coin.Tick, s)
	require.NotNil(t, r)
	assert.Equal(t, "Орёл", r.Label)
}

func TestWheel_SpinSettlesAnUnobservedSpin(t *testing.T) {
	src := &scriptedSource{}
	w := newWheel(t, memory.NewBackend().For("p"), src)
	var got []widget.Result
	w.Subscribe(func(r widget.Result) { got = append(got, r) })

	src.push(1, 0)
	first, ok := w.Spin(epoch)
	require.True(t, ok)

	src.push(3, 0)
	second, ok := w.Spin(first.StartedAt.Add(first.Duration))
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].SessionID)
	assert.Equal(t, 1, got[0].Index)

	r := finish(t, w.Tick, second)
	require.NotNil(t, r)
	assert.Equal(t, 3, r.Index)
	assert.Len(t, got, 2)
}

func TestCoin_FlipSettlesAnUnobservedFlip(t *testing.T) {
	c := newCoin(t, &scriptedSource{}, "eng")
	first, ok := c.Flip(epoch)
	require.True(t, ok)
	_, ok = c.Flip(first.StartedAt.Add(first.Duration - time.Millisecond))
	assert.False(t, ok)
	_, ok = c.Flip(first.StartedAt.Add(first.Duration))
	assert.True(t, ok)
}

func TestCoin_FlipFromFinalFrameKeepsResult(t *testing.T) {
	logger := zaptest.NewLogger(t)
	c := widget.NewCoin(dice.NewSampler(dice.NewPCGSource(5), logger), locale.Default().Lookup("eng"),
		widget.DialOptions{Profile: animation.Profile{MinTurns: 1, MaxTurns: 1, Base: 20 * time.Millisecond}}, logger)
	var got []widget.Result
	c.Subscribe(func(r widget.Result) { got = append(got, r) })

	first, ok := c.Flip(time.Now())
	require.True(t, ok)
	refl := false
	r := c.Run(context.Background(), first.ID, 2*time.Millisecond, func(f animation.Frame) {
		if f.Progress >= 1 && !refl {
			_, refl = c.Flip(time.Now())
		}
	})

	require.NotNil(t, r)
	assert.Equal(t, first.ID, r.SessionID)
	assert.Equal(t, first.Chosen, r.Index)
	assert.True(t, refl)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].SessionID)
}

func TestDesk_SettleCompletesElapsedAnimations(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	d := widget.NewDesk(ctx, memory.NewBackend().For("p"), locale.Default(),
		dice.NewSampler(&scriptedSource{}, logger), widget.Options{Wheel: wheelOpts(), Coin: widget.DialOptions{Profile: testProfile}}, logger)
	var got []widget.Result
	d.Wheel.Subscribe(func(r widget.Result) { got = append(got, r) })
	d.Coin.Subscribe(func(r widget.Result) { got = append(got, r) })

	_, ok := d.Wheel.Spin(epoch)
	require.True(t, ok)
	_, ok = d.Coin.Flip(epoch)
	require.True(t, ok)

	d.Settle(epoch.Add(testProfile.Max))
	require.Len(t, got, 2)
	assert.Equal(t, animation.Idle, d.Wheel.View().State)
	assert.Equal(t, animation.Idle, d.Coin.View().State)
	assert.True(t, d.Coin.View().HasResult)
}

func TestRegistry_SharesDeskPerProfile(t *testing.T) {
	logger := zaptest.NewLogger(t)
	b := memory.NewBackend()
	reg := widget.NewRegistry(b.For, locale.Default(), dice.NewSampler(&scriptedSource{}, logger),
		widget.Options{Wheel: wheelOpts(), Coin: widget.DialOptions{Profile: testProfile}}, logger)
	ctx := context.Background()

	a1, err := reg.Desk(ctx, "alice")
	require.NoError(t, err)
	a2, err := reg.Desk(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, a1, a2)

	bob, err := reg.Desk(ctx, "bob")
	require.NoError(t, err)
	assert.NotSame(t, a1, bob)

	require.NoError(t, a1.Wheel.Add(ctx, "Tacos"))
	assert.Contains(t, a2.Wheel.View().Labels, "Tacos")
	assert.NotContains(t, bob.Wheel.View().Labels, "Tacos")
}

func TestRegistry_RejectsBadProfile(t *testing.T) {
	logger := zaptest.NewLogger(t)
	reg := widget.NewRegistry(memory.NewBackend().For, locale.Default(), dice.NewSampler(&scriptedSource{}, logger), widget.Options{}, logger)
	for _, name := range []string{"", "has space", "../etc", "a-very-long-profile-name-that-exceeds-32"} {
		_, err := reg.Desk(context.Background(), name)
		assert.ErrorIs(t, err, widget.ErrInvalidProfile, name)
	}
}
