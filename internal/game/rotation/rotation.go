// Package rotation maps cumulative rotation angles to discrete outcomes.
//
// Angles are float64 degrees. A rotation accumulates without bound while an
// animation runs and is reduced modulo FullTurn only at rest; Normalize is the
// single place that reduction happens.
package rotation

import "math"

// FullTurn is one complete revolution in degrees.
const FullTurn = 360.0

// Normalize reduces r into [0, FullTurn).
//
// Postcondition: 0 <= Normalize(r) < FullTurn and Normalize(Normalize(r)) == Normalize(r).
func Normalize(r float64) float64 {
	m := math.Mod(r, FullTurn)
	if m < 0 {
		m += FullTurn
	}
	// math.Mod of a tiny negative value plus FullTurn can round up to FullTurn.
	if m >= FullTurn {
		m -= FullTurn
	}
	if m == 0 {
		return 0 // collapse -0
	}
	return m
}

// Distance returns the shortest angular distance between a and b.
//
// Postcondition: 0 <= Distance(a, b) <= FullTurn/2.
func Distance(a, b float64) float64 {
	d := Normalize(a - b)
	if d > FullTurn/2 {
		d = FullTurn - d
	}
	return d
}

// Dial is a rotating body with a finite set of resting positions, each
// presenting one outcome under a fixed reference mark.
type Dial interface {
	// Positions returns the number of distinct outcomes. Always >= 1.
	Positions() int
	// Canonical returns the normalized rotation at which outcome i sits
	// exactly under the reference mark.
	//
	// Precondition: 0 <= i < Positions().
	Canonical(i int) float64
}

// OutcomeAt returns the outcome whose canonical rotation is angularly nearest
// to r. Ties resolve to the lower index.
//
// Precondition: d.Positions() >= 1.
// Postcondition: OutcomeAt(d, Target(d, r0, p, k)) == p for every valid p and k >= 1.
func OutcomeAt(d Dial, r float64) int {
	nr := Normalize(r)
	best := 0
	bestDist := math.Inf(1)
	for i := 0; i < d.Positions(); i++ {
		dist := Distance(nr, d.Canonical(i))
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// Target computes the absolute rotation that comes to rest on outcome p after
// turns additional full revolutions starting from current.
//
// Precondition: 0 <= p < d.Positions(); turns >= 1.
// Postcondition: result > current; Normalize(result) is within float error of
// d.Canonical(p); result - current is in [turns*FullTurn, (turns+1)*FullTurn).
func Target(d Dial, current float64, p, turns int) float64 {
	if turns < 1 {
		turns = 1
	}
	delta := Normalize(d.Canonical(p) - Normalize(current))
	return current + float64(turns)*FullTurn + delta
}
