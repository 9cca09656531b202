package dice

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Sampler wraps a Source and logger to provide logged outcome draws.
// Every draw is logged at debug level with its bounds and result.
type Sampler struct {
	src    Source
	logger *zap.Logger
}

// NewSampler creates a Sampler that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewSampler(src Source, logger *zap.Logger) *Sampler {
	return &Sampler{src: src, logger: logger}
}

// Pick selects a uniformly random index in [0, n).
//
// Precondition: none; n <= 0 is tolerated.
// Postcondition: ok is false and the Source is not consulted when n <= 0;
// otherwise 0 <= idx < n and every index has probability 1/n.
func (s *Sampler) Pick(n int) (idx int, ok bool) {
	if n <= 0 {
		s.logger.Debug("pick skipped", zap.Int("n", n))
		return 0, false
	}
	idx = s.src.Intn(n)
	s.logger.Debug("pick", zap.Int("n", n), zap.Int("index", idx))
	return idx, true
}

// Flip returns true (heads) with probability 0.5.
func (s *Sampler) Flip() bool {
	heads := s.src.Intn(2) == 0
	s.logger.Debug("flip", zap.Bool("heads", heads))
	return heads
}

// Between returns a uniformly random integer in [min, max] inclusive.
//
// Precondition: none; min > max is reported as an error.
// Postcondition: Returns ErrInvalidRange and no value when min > max;
// otherwise min <= v <= max.
func (s *Sampler) Between(min, max int) (int, error) {
	if min > max {
		s.logger.Debug("between rejected", zap.Int("min", min), zap.Int("max", max))
		return 0, ErrInvalidRange
	}
	span := uint64(max) - uint64(min) + 1
	var off uint64
	if span != 0 && span <= math.MaxInt {
		off = uint64(s.src.Intn(int(span)))
	} else {
		off = s.wide(span)
	}
	v := int(uint64(min) + off)
	s.logger.Debug("between", zap.Int("min", min), zap.Int("max", max), zap.Int("value", v))
	return v, nil
}

// wide draws an offset in [0, span) for spans too large for Source.Intn.
// A span of zero stands for the full 2^64 range.
func (s *Sampler) wide(span uint64) uint64 {
	var rem uint64
	if span != 0 {
		rem = (math.MaxUint64%span + 1) % span
	}
	for {
		var v uint64
		for i := 0; i < 4; i++ {
			v = v<<16 | uint64(s.src.Intn(1<<16))
		}
		if span == 0 {
			return v
		}
		if v <= math.MaxUint64-rem {
			return v % span
		}
	}
}

// Turns returns a uniformly random count of extra full rotations in [lo, hi].
//
// Precondition: 1 <= lo <= hi.
// Postcondition: lo <= n <= hi. When hi < lo, lo is returned.
func (s *Sampler) Turns(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + s.src.Intn(hi-lo+1)
	s.logger.Debug("turns", zap.Int("lo", lo), zap.Int("hi", hi), zap.Int("turns", n))
	return n
}

// Jitter returns a random duration in [0, max] at millisecond granularity.
//
// Postcondition: Returns 0 when max < 1ms.
func (s *Sampler) Jitter(max time.Duration) time.Duration {
	ms := int(max / time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return time.Duration(s.src.Intn(ms+1)) * time.Millisecond
}
