// Package dice provides the randomness abstraction behind every outcome the
// desk widgets produce: wheel sectors, coin faces and bounded integers.
package dice

import "errors"

// ErrInvalidRange is returned when a bounded draw is requested with min > max.
var ErrInvalidRange = errors.New("invalid range: min exceeds max")

// Source is the randomness provider for all draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
