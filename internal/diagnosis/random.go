package diagnosis

import (
	"math/rand/v2"
	"sync"
)

// Source supplies the randomness behind a prediction.
// Implementations must be safe for concurrent use.
type Source interface {
	// Categorical draws an index in [0, len(weights)) with probability weights[i]/sum(weights).
	// Zero-weight indices are never returned. weights must contain a positive entry.
	Categorical(weights []float64) int
	// Uniform draws a real number from [lo, hi).
	Uniform(lo, hi float64) float64
}

type float64Func func() float64

func (f float64Func) Categorical(weights []float64) int {
	return categorical(weights, f())
}

func (f float64Func) Uniform(lo, hi float64) float64 {
	return lo + f()*(hi-lo)
}

// NewSource returns a Source backed by the runtime's auto-seeded generator.
func NewSource() Source {
	return float64Func(rand.Float64)
}

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource returns a Source whose sequence of draws is fixed by seed.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *seededSource) Categorical(weights []float64) int {
	return categorical(weights, s.next())
}

func (s *seededSource) Uniform(lo, hi float64) float64 {
	return lo + s.next()*(hi-lo)
}

// categorical maps u in [0, 1) onto the cumulative weight distribution.
func categorical(weights []float64, u float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}

	target := u * total
	last := -1
	var cum float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if target < cum {
			return i
		}
	}
	// Rounding in the cumulative sum can leave target == total.
	return last
}
