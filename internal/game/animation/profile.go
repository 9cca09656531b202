package animation

import "time"

// Profile parameterizes how far and how long one animation runs.
type Profile struct {
	// MinTurns and MaxTurns bound the extra full revolutions per trigger.
	MinTurns int
	MaxTurns int
	// Base is the duration before the per-turn and jitter terms are added.
	Base time.Duration
	// PerTurn is added once per extra revolution, so longer spins run longer.
	PerTurn time.Duration
	// Jitter is the upper bound of the random term added to every duration.
	Jitter time.Duration
	// Max caps the total duration. Zero disables the cap.
	Max time.Duration
}

// WheelProfile is the default profile for wheel spins.
var WheelProfile = Profile{
	MinTurns: 4,
	MaxTurns: 7,
	Base:     3700 * time.Millisecond,
	PerTurn:  200 * time.Millisecond,
	Jitter:   400 * time.Millisecond,
	Max:      5300 * time.Millisecond,
}

// CoinProfile is the default profile for coin flips.
var CoinProfile = Profile{
	MinTurns: 6,
	MaxTurns: 10,
	Base:     900 * time.Millisecond,
	PerTurn:  200 * time.Millisecond,
	Jitter:   600 * time.Millisecond,
	Max:      3600 * time.Millisecond,
}

// Duration returns the animation length for the given turn count and jitter.
//
// Postcondition: result >= 0; result <= p.Max when p.Max > 0.
func (p Profile) Duration(turns int, jitter time.Duration) time.Duration {
	d := p.Base + time.Duration(turns)*p.PerTurn + jitter
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	if d < 0 {
		d = 0
	}
	return d
}
