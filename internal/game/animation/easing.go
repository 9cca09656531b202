package animation

import (
	"fmt"
	"math"
)

// Easing maps linear progress t in [0, 1] to eased progress in [0, 1].
//
// Postcondition: Easing(0) == 0 and Easing(1) == 1.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return clamp01(t) }

// EaseOutCubic decelerates toward the end: 1 - (1-t)^3.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// EaseOutQuart decelerates more sharply than EaseOutCubic: 1 - (1-t)^4.
func EaseOutQuart(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 4)
}

// EasingByName resolves a configured easing name.
//
// Postcondition: Returns EaseOutCubic for the empty name, or an error for an
// unknown name.
func EasingByName(name string) (Easing, error) {
	switch name {
	case "", "ease_out_cubic":
		return EaseOutCubic, nil
	case "ease_out_quart":
		return EaseOutQuart, nil
	case "linear":
		return Linear, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
