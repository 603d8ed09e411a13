package rand

import (
	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"
)

// A Generator uses a goroutine to populate batches of random numbers from a
// Mersenne twister. It implements golang.org/x/exp/rand.Source, so it can
// drive gonum's distribution sampling directly.
type Generator struct {
	ch chan uint64
}

func startGenerator(r *mt19937.MT19937) *Generator {
	numChan := make(chan uint64, 1024)

	go func() {
		for {
			numChan <- r.Uint64()
		}
	}()

	return &Generator{
		ch: numChan,
	}
}

// NewGenerator starts a new background PRNG based on the given seed
func NewGenerator(seed int64) (*Generator, error) {
	r := mt19937.New()
	r.Seed(seed)
	return startGenerator(r), nil
}

// NewGeneratorSlice starts a new background PRNG from a full seed slice
func NewGeneratorSlice(seed []uint64) (*Generator, error) {
	if len(seed) < 1 {
		return nil, errors.Errorf("Seed slice must have at least one value")
	}

	r := mt19937.New()
	r.SeedFromSlice(seed)
	return startGenerator(r), nil
}

// Uint64 returns the next pre-generated number. Part of the
// golang.org/x/exp/rand.Source interface.
func (g *Generator) Uint64() uint64 {
	return <-g.ch
}

// Seed is part of the golang.org/x/exp/rand.Source interface. The generator
// is seeded once at construction, so this is a no-op.
func (g *Generator) Seed(seed uint64) {
}

// Int63 provides the same interface as Go's math/rand, but with pre-generation.
func (g *Generator) Int63() int64 {
	return int64(g.Uint64() & 0x7fffffffffffffff)
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Float64 uses the commented, simpler implmentation since we don't have the
// same support requirements for users
func (g *Generator) Float64() float64 {
	// See the Go lang comments for Rand Float64 implementation for details
	return float64(g.Int63n(1<<53)) / (1 << 53)
}
