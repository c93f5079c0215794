// Correlated telemetry sample types
package metrics

// Sample represents one correlated telemetry snapshot.
type Sample struct {
	Timestamp         int64   `json:"ts"`                  // epoch milliseconds
	CPUPercent        float64 `json:"cpu_percent"`         // 0..100
	MemoryPercent     float64 `json:"memory_percent"`      // 0..100
	RequestsPerSecond int     `json:"requests_per_second"` // >= 0
	P50Ms             float64 `json:"p50_ms"`
	P95Ms             float64 `json:"p95_ms"`
	P99Ms             float64 `json:"p99_ms"`
	ErrorRatePercent  float64 `json:"error_rate_percent"` // >= 0
}

// Tuning holds the generator's spike dynamics. Zero values fall back to the
// defaults, so an empty config section keeps stock behavior.
type Tuning struct {
	SpikeChance          float64 // per-tick chance to enter a spike while idle
	SpikeCooldownTicks   int     // cooldown set when a spike fires
	RecoveryPlateauTicks int     // cooldown values below this hold the recovery plateau
}

// DefaultTuning returns the stock spike dynamics.
func DefaultTuning() Tuning {
	return Tuning{
		SpikeChance:          0.02,
		SpikeCooldownTicks:   15,
		RecoveryPlateauTicks: 5,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.SpikeChance <= 0 {
		t.SpikeChance = d.SpikeChance
	}
	if t.SpikeCooldownTicks <= 0 {
		t.SpikeCooldownTicks = d.SpikeCooldownTicks
	}
	if t.RecoveryPlateauTicks <= 0 {
		t.RecoveryPlateauTicks = d.RecoveryPlateauTicks
	}
	return t
}
