package nodes

import (
	"fmt"
	"math/rand"
	"testing"
)

// scriptRand returns 0.5 for every draw unless a specific call index (1-based)
// has an override.
type scriptRand struct {
	n        int
	override map[int]float64
}

func (r *scriptRand) Float64() float64 {
	r.n++
	if v, ok := r.override[r.n]; ok {
		return v
	}
	return 0.5
}

func TestNewPopulation_Shape(t *testing.T) {
	sim := NewSeededSimulator(DefaultTuning(), rand.New(rand.NewSource(3)))
	pop := sim.NewPopulation(24, DefaultRegions)
	if len(pop) != 24 {
		t.Fatalf("expected 24 nodes, got %d", len(pop))
	}
	for i, n := range pop {
		if want := fmt.Sprintf("node-%02d", i+1); n.ID != want {
			t.Errorf("node %d: expected id %s, got %s", i, want, n.ID)
		}
		if want := DefaultRegions[i%len(DefaultRegions)]; n.Region != want {
			t.Errorf("node %d: expected region %s, got %s", i, want, n.Region)
		}
		if n.Load < 30 || n.Load > 70 {
			t.Errorf("node %d: initial load out of [30,70]: %f", i, n.Load)
		}
		if n.Health < 0 || n.Health > 100 {
			t.Errorf("node %d: health out of range: %f", i, n.Health)
		}
		if n.Status != StatusFor(n.Health) {
			t.Errorf("node %d: status %s inconsistent with health %f", i, n.Status, n.Health)
		}
	}
}

func TestNewPopulation_Degenerate(t *testing.T) {
	sim := NewSeededSimulator(DefaultTuning(), rand.New(rand.NewSource(3)))
	if pop := sim.NewPopulation(0, DefaultRegions); len(pop) != 0 {
		t.Errorf("count 0 should yield an empty population, got %d", len(pop))
	}
	if pop := sim.NewPopulation(-3, DefaultRegions); len(pop) != 0 {
		t.Errorf("negative count should yield an empty population, got %d", len(pop))
	}
	pop := sim.NewPopulation(4, nil)
	for i, n := range pop {
		if want := DefaultRegions[i]; n.Region != want {
			t.Errorf("empty region set should fall back to defaults: got %s want %s", n.Region, want)
		}
	}
}

// Creation draws per node: load, tier roll, optional second coin, health
// value.
func TestNewPopulation_HealthTiers(t *testing.T) {
	rng := &scriptRand{override: map[int]float64{
		2: 0.0, // node 1: first tier, health uniform(85,100)
		5: 0.9, // node 2: miss first tier
		6: 0.0, // node 2: second coin hits, health uniform(50,75)
		9: 0.9, // node 3: miss first tier
		10: 0.9, // node 3: miss second coin, health uniform(15,35)
	}}
	sim := NewSeededSimulator(DefaultTuning(), rng)
	pop := sim.NewPopulation(3, DefaultRegions)

	if pop[0].Health != 92.5 || pop[0].Status != StatusHealthy {
		t.Errorf("node 1: expected healthy 92.5, got %f %s", pop[0].Health, pop[0].Status)
	}
	if pop[1].Health != 62.5 || pop[1].Status != StatusDegraded {
		t.Errorf("node 2: expected degraded 62.5, got %f %s", pop[1].Health, pop[1].Status)
	}
	if pop[2].Health != 25 || pop[2].Status != StatusDown {
		t.Errorf("node 3: expected down 25, got %f %s", pop[2].Health, pop[2].Status)
	}
}

func TestStatusFor_Boundaries(t *testing.T) {
	cases := map[float64]Status{
		100:  StatusHealthy,
		80:   StatusHealthy,
		79.9: StatusDegraded,
		40:   StatusDegraded,
		39.9: StatusDown,
		0:    StatusDown,
	}
	for health, want := range cases {
		if got := StatusFor(health); got != want {
			t.Errorf("StatusFor(%v)=%s, want %s", health, got, want)
		}
	}
}

func TestTick_PureAndDeterministic(t *testing.T) {
	base := NewSeededSimulator(DefaultTuning(), rand.New(rand.NewSource(11)))
	pop := base.NewPopulation(8, DefaultRegions)
	before := make(Population, len(pop))
	copy(before, pop)

	a := NewSeededSimulator(DefaultTuning(), rand.New(rand.NewSource(99))).Tick(pop)
	b := NewSeededSimulator(DefaultTuning(), rand.New(rand.NewSource(99))).Tick(pop)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("node %d: identical seeds produced different results: %+v vs %+v", i, a[i], b[i])
		}
	}
	for i := range pop {
		if pop[i] != before[i] {
			t.Fatalf("node %d: Tick mutated its argument", i)
		}
	}
}

// Tick draws per node: load, delta, then a bias roll only for down or
// degraded nodes.
func TestTick_DownNodeRecoveryBias(t *testing.T) {
	rng := &scriptRand{override: map[int]float64{
		2: 0.0, // delta draw: uniform(-1.5,1.5) = -1.5
		3: 0.0, // recovery roll succeeds
	}}
	sim := NewSeededSimulator(DefaultTuning(), rng)
	pop := Population{{ID: "node-01", Region: "us-east", Load: 50, Health: 35, Status: StatusDown}}

	next := sim.Tick(pop)
	if next[0].Health < 35 {
		t.Fatalf("recovery-biased delta must not lower health: got %f", next[0].Health)
	}
	if next[0].Health != 38 {
		t.Errorf("expected health 35+|−1.5|*2=38, got %f", next[0].Health)
	}
	if next[0].Status != StatusFor(next[0].Health) {
		t.Errorf("status not recomputed from new health")
	}
	if pop[0].Health != 35 {
		t.Errorf("argument population mutated")
	}
}

func TestTick_DegradedDeclineBias(t *testing.T) {
	rng := &scriptRand{override: map[int]float64{
		2: 1.0,  // delta draw: +1.5
		3: 0.05, // decline roll succeeds
	}}
	sim := NewSeededSimulator(DefaultTuning(), rng)
	pop := Population{{ID: "node-01", Region: "us-east", Load: 50, Health: 45, Status: StatusDegraded}}

	next := sim.Tick(pop)
	if next[0].Health >= 45 {
		t.Fatalf("decline-biased delta must lower health: got %f", next[0].Health)
	}
	if next[0].Health != 43 {
		t.Errorf("expected round(45-1.5*1.5)=43, got %f", next[0].Health)
	}
}

// A degraded node whose decline roll always fails drifts only by the
// symmetric base delta.
func TestTick_DegradedWithoutDeclineRoll(t *testing.T) {
	// All draws 0.5: zero load delta, zero health delta, roll 0.5 fails.
	sim := NewSeededSimulator(DefaultTuning(), &scriptRand{})
	pop := Population{{ID: "node-01", Region: "us-east", Load: 50, Health: 45, Status: StatusDegraded}}
	for i := 0; i < 100; i++ {
		pop = sim.Tick(pop)
		if pop[0].Health != 45 {
			t.Fatalf("tick %d: symmetric zero delta should hold health at 45, got %f", i, pop[0].Health)
		}
		if pop[0].Status != StatusDegraded {
			t.Fatalf("tick %d: unexpected status %s", i, pop[0].Status)
		}
	}
}

func TestTick_Bounds(t *testing.T) {
	sim := NewSeededSimulator(DefaultTuning(), rand.New(rand.NewSource(5)))
	pop := sim.NewPopulation(24, DefaultRegions)
	for i := 0; i < 1000; i++ {
		pop = sim.Tick(pop)
		for _, n := range pop {
			if n.Load < 0 || n.Load > 100 {
				t.Fatalf("tick %d: load out of range: %f", i, n.Load)
			}
			if n.Health < 0 || n.Health > 100 {
				t.Fatalf("tick %d: health out of range: %f", i, n.Health)
			}
			if n.Status != StatusFor(n.Health) {
				t.Fatalf("tick %d: status diverged from health", i)
			}
		}
	}
}
