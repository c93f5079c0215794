// Node health population simulator
package nodes

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Rand is the draw source used by the simulator. *rand.Rand satisfies it; a
// scripted source lets tests force the bias rolls.
type Rand interface {
	Float64() float64
}

// Tuning holds the state-dependent bias probabilities. Zero values fall back
// to the defaults.
type Tuning struct {
	RecoveryChance float64 // chance a down node gets a doubled upward delta
	DeclineChance  float64 // chance a degraded node gets a forced downward delta
}

// DefaultTuning returns the stock bias probabilities.
func DefaultTuning() Tuning {
	return Tuning{RecoveryChance: 0.3, DeclineChance: 0.1}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.RecoveryChance <= 0 {
		t.RecoveryChance = d.RecoveryChance
	}
	if t.DeclineChance <= 0 {
		t.DeclineChance = d.DeclineChance
	}
	return t
}

// Simulator evolves node populations with state-dependent biased random
// walks. It holds no population state itself; Tick is a pure function of its
// input.
type Simulator struct {
	rng        Rand
	tuning     Tuning
	thresholds Thresholds
}

// NewSimulator creates a simulator with a time-seeded random source.
func NewSimulator(t Tuning) *Simulator {
	return NewSeededSimulator(t, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSeededSimulator creates a simulator with an explicit draw source.
func NewSeededSimulator(t Tuning, rng Rand) *Simulator {
	return &Simulator{rng: rng, tuning: t.withDefaults(), thresholds: DefaultThresholds}
}

// SetThresholds overrides the health cutoffs used for status derivation.
func (s *Simulator) SetThresholds(t Thresholds) { s.thresholds = t }

// Thresholds returns the cutoffs in use.
func (s *Simulator) Thresholds() Thresholds { return s.thresholds }

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// NewPopulation creates count nodes distributed round-robin across regions.
// Health is drawn from a three-tier mixture biased toward a healthy fleet.
// A count below 1 yields an empty population; an empty region set falls back
// to DefaultRegions.
func (s *Simulator) NewPopulation(count int, regions []string) Population {
	if count <= 0 {
		return Population{}
	}
	if len(regions) == 0 {
		regions = DefaultRegions
	}
	pop := make(Population, 0, count)
	for i := 0; i < count; i++ {
		load := s.uniform(30, 70)
		var health float64
		if s.rng.Float64() < 0.85 {
			health = s.uniform(85, 100)
		} else if s.rng.Float64() < 0.5 {
			health = s.uniform(50, 75)
		} else {
			health = s.uniform(15, 35)
		}
		pop = append(pop, Node{
			ID:     fmt.Sprintf("node-%02d", i+1),
			Region: regions[i%len(regions)],
			Load:   load,
			Health: health,
			Status: s.thresholds.StatusFor(health),
		})
	}
	return pop
}

// Tick returns a new population evolved one step from p. Down nodes are
// biased toward recovery, degraded nodes occasionally worsen, healthy nodes
// drift gently. The argument is never mutated.
func (s *Simulator) Tick(p Population) Population {
	next := make(Population, len(p))
	for i, n := range p {
		n.Load = clamp(n.Load+s.uniform(-4, 4), 0, 100)
		delta := s.uniform(-1.5, 1.5)
		switch s.thresholds.StatusFor(n.Health) {
		case StatusDown:
			if s.rng.Float64() < s.tuning.RecoveryChance {
				delta = math.Abs(delta) * 2
			}
		case StatusDegraded:
			if s.rng.Float64() < s.tuning.DeclineChance {
				delta = -math.Abs(delta) * 1.5
			}
		}
		n.Health = math.Round(clamp(n.Health+delta, 0, 100))
		n.Status = s.thresholds.StatusFor(n.Health)
		next[i] = n
	}
	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
