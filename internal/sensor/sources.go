package sensor

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Source produces snapshots. The HTTP layer depends on this rather than on
// Generator so faults can be injected.
type Source interface {
	Generate() (Snapshot, error)
}

// Generator produces synthetic snapshots with each field drawn uniformly
// from its range and rounded to one decimal place.
type Generator struct {
	mu  sync.Mutex // guards rng; rand.Rand is not safe for concurrent use
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand makes the generator draw from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator. Without options it uses the global
// math/rand/v2 source and the wall clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a fresh snapshot. It never fails; the error return
// satisfies Source.
func (g *Generator) Generate() (Snapshot, error) {
	s := Snapshot{Timestamp: g.now().UTC()}
	for _, f := range Fields {
		v := g.draw(f.Min, f.Max)
		switch f.Kind {
		case Temperature:
			s.Temperature = v
		case Vibration:
			s.Vibration = v
		case Current:
			s.Current = v
		case Voltage:
			s.Voltage = v
		}
	}
	return s, nil
}

func (g *Generator) draw(lo, hi float64) float64 {
	var u float64
	if g.rng != nil {
		g.mu.Lock()
		u = g.rng.Float64()
		g.mu.Unlock()
	} else {
		u = rand.Float64()
	}
	return Round1(lo + u*(hi-lo))
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
