package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// pcgSource implements Source with a PCG generator from math/rand/v2.
// rand.Rand is not safe for concurrent use, so every draw holds mu.
type pcgSource struct {
	mu sync.Mutex
	r  *mrand.Rand
}

// NewPCGSource returns a deterministic Source seeded with seed.
//
// Postcondition: Two sources created with the same seed produce the same
// sequence of values for the same sequence of calls.
func NewPCGSource(seed uint64) Source {
	return &pcgSource{r: mrand.New(mrand.NewPCG(seed, 0))}
}

// NewSeededSource returns a PCG Source seeded from crypto/rand.
//
// Postcondition: Returns a non-nil Source.
func NewSeededSource() Source {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return NewPCGSource(binary.LittleEndian.Uint64(buf[:]))
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (p *pcgSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}
