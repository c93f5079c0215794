package metrics

import (
	"math"
	"math/rand"
	"time"
)

// Rand is the draw source used by the generator. *rand.Rand satisfies it; a
// scripted source lets tests force specific branches.
type Rand interface {
	Float64() float64
}

// Baselines for the slow-moving trends. The trends drift around these values,
// never replacing them.
const (
	cpuBaseline    = 45.0
	memoryBaseline = 60.0

	cpuTrendLimit    = 15.0
	memoryTrendLimit = 10.0
)

// Generator produces correlated metric samples on each tick. It owns only a
// small rolling state (trend accumulators, spike cooldown) and never retains
// the samples it hands out.
type Generator struct {
	rng    Rand
	now    func() time.Time
	tuning Tuning

	cpuTrend           float64
	memoryTrend        float64
	errorSpikeCooldown int
}

// NewGenerator creates a generator with a time-seeded random source.
func NewGenerator(t Tuning) *Generator {
	return NewSeededGenerator(t, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewSeededGenerator creates a generator with an explicit draw source and
// clock, for deterministic runs.
func NewSeededGenerator(t Tuning, rng Rand, now func() time.Time) *Generator {
	return &Generator{rng: rng, now: now, tuning: t.withDefaults()}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

// NextSample advances the generator state and returns one correlated sample.
// CPU and memory follow their trends, throughput and latency follow CPU load,
// and the error rate runs a spike/cooldown state machine.
func (g *Generator) NextSample(timestamp int64) Sample {
	g.cpuTrend = clamp(g.cpuTrend+g.uniform(-1, 1)*2, -cpuTrendLimit, cpuTrendLimit)
	g.memoryTrend = clamp(g.memoryTrend+g.uniform(-0.75, 0.75)*2, -memoryTrendLimit, memoryTrendLimit)

	cpu := clamp(cpuBaseline+g.cpuTrend+g.uniform(-4, 4), 0, 100)
	memory := clamp(memoryBaseline+g.memoryTrend+g.uniform(-3, 3), 0, 100)
	loadFactor := cpu / 100

	rps := 1200*(0.5+loadFactor*0.8) + g.uniform(-100, 100)
	if rps < 0 {
		rps = 0
	}

	// Multiplicative construction keeps p50 < p95 < p99 for every draw.
	p50 := math.Max(5, 45+loadFactor*80+g.uniform(-7.5, 7.5))
	p95 := p50 * g.uniform(2.2, 2.6)
	p99 := p95 * g.uniform(1.8, 2.1)

	errorRate := 0.05 + loadFactor*0.15 + g.uniform(0, 0.1)

	// Cooldown decrements once per tick, before the branch test.
	if g.errorSpikeCooldown > 0 {
		g.errorSpikeCooldown--
	}
	switch {
	case g.errorSpikeCooldown == 0:
		if g.rng.Float64() < g.tuning.SpikeChance {
			errorRate = g.uniform(2.0, 5.0)
			g.errorSpikeCooldown = g.tuning.SpikeCooldownTicks
		}
	case g.errorSpikeCooldown < g.tuning.RecoveryPlateauTicks:
		// Partial recovery plateau after the spike has cooled most of the way.
		errorRate = g.uniform(0.5, 1.5)
	}

	return Sample{
		Timestamp:         timestamp,
		CPUPercent:        cpu,
		MemoryPercent:     memory,
		RequestsPerSecond: int(math.Round(rps)),
		P50Ms:             round1(p50),
		P95Ms:             round1(p95),
		P99Ms:             round1(p99),
		ErrorRatePercent:  round2(errorRate),
	}
}

// Backfill produces floor(durationMinutes*60000/intervalMs) samples ending at
// now, using the same tick path as live generation so trends and cooldown
// evolve continuously. Non-positive duration or interval yields an empty
// sequence.
func (g *Generator) Backfill(durationMinutes float64, intervalMs int64) []Sample {
	if durationMinutes <= 0 || intervalMs <= 0 {
		return nil
	}
	count := int(math.Floor(durationMinutes * 60000 / float64(intervalMs)))
	if count <= 0 {
		return nil
	}
	end := g.now().UnixMilli()
	samples := make([]Sample, 0, count)
	for i := 0; i < count; i++ {
		ts := end - int64(count-1-i)*intervalMs
		samples = append(samples, g.NextSample(ts))
	}
	return samples
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

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
