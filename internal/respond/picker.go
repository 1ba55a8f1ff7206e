package respond

import (
	"math/rand/v2"
	"sync"
)

// Picker is the random source used to choose phrases and decide whether to
// append a tip. Implementations must be safe for concurrent use.
type Picker interface {
	// Intn returns a value in [0, n). n is always positive.
	Intn(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// uniformPicker draws from the math/rand/v2 global source.
type uniformPicker struct{}

func (uniformPicker) Intn(n int) int   { return rand.IntN(n) }
func (uniformPicker) Float64() float64 { return rand.Float64() }

// seededPicker is a reproducible Picker.
type seededPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededPicker returns a Picker whose sequence is fully determined by seed.
func NewSeededPicker(seed uint64) Picker {
	return &seededPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *seededPicker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

func (p *seededPicker) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

func pick(p Picker, pool []string) string {
	return pool[p.Intn(len(pool))]
}
