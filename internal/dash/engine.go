// Engine orchestrating metric and node ticks
package dash

import (
	"context"
	"sync"
	"time"

	"infradash-sim/internal/config"
	"infradash-sim/internal/logging"
	"infradash-sim/internal/metrics"
	"infradash-sim/internal/nodes"

	"github.com/google/uuid"
)

// MetricWriter is an interface to support different sample output writers.
type MetricWriter interface {
	Write(SampleRow) error
}

// NodeWriter handles node population snapshots.
type NodeWriter interface {
	WriteNodes(NodesRow) error
}

// Optional: metric writers may support batch mode
type batchMetricWriter interface {
	WriteBatch([]SampleRow) error
}

// SampleRow is one metric sample stamped with the session identity.
type SampleRow struct {
	SessionID string `json:"session_id"`
	metrics.Sample
}

// NodesRow is one node population snapshot stamped with the session identity.
type NodesRow struct {
	SessionID string           `json:"session_id"`
	Timestamp time.Time        `json:"ts"`
	Nodes     nodes.Population `json:"nodes"`
}

// RegionHealth summarizes status counts per region.
type RegionHealth struct {
	Region   string `json:"region"`
	Total    int    `json:"total"`
	Healthy  int    `json:"healthy"`
	Degraded int    `json:"degraded"`
	Down     int    `json:"down"`
}

// Engine owns the metric generator, the node population, and the sliding
// sample window, and drives both tick cadences.
type Engine struct {
	sessionID  string
	cfg        *config.Config
	gen        *metrics.Generator
	nodeSim    *nodes.Simulator
	population nodes.Population
	window     *metrics.Window
	writer     MetricWriter
	nodeWriter NodeWriter
	now        func() time.Time
	mu         sync.Mutex
}

// NewEngine initializes the generators from cfg, seeds the node population,
// and backfills the sample window up to the retention bound.
func NewEngine(cfg *config.Config, writer MetricWriter, nodeWriter NodeWriter) *Engine {
	gen := metrics.NewGenerator(metrics.Tuning{
		SpikeChance:          cfg.Tuning.SpikeChance,
		SpikeCooldownTicks:   cfg.Tuning.SpikeCooldownTicks,
		RecoveryPlateauTicks: cfg.Tuning.RecoveryPlateauTicks,
	})
	nodeSim := nodes.NewSimulator(nodes.Tuning{
		RecoveryChance: cfg.Tuning.NodeRecoveryChance,
		DeclineChance:  cfg.Tuning.NodeDeclineChance,
	})
	nodeSim.SetThresholds(nodes.Thresholds{
		Healthy:  cfg.HealthyThreshold,
		Degraded: cfg.DegradedThreshold,
	})

	e := &Engine{
		sessionID:  uuid.New().String(),
		cfg:        cfg,
		gen:        gen,
		nodeSim:    nodeSim,
		population: nodeSim.NewPopulation(cfg.PopulationSize, cfg.Regions),
		window:     metrics.NewWindow(cfg.MaxSamples()),
		writer:     writer,
		nodeWriter: nodeWriter,
		now:        time.Now,
	}
	for _, s := range gen.Backfill(cfg.RetentionMinutes, int64(cfg.MetricTickMs)) {
		e.window.Append(s)
	}
	return e
}

// SessionID returns the identity stamped on emitted rows.
func (e *Engine) SessionID() string { return e.sessionID }

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Run drives both tick cadences until the context is done. The metric and
// node ticks touch disjoint simulation state; no ordering between them is
// guaranteed or needed.
func (e *Engine) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting engine",
		"session_id", e.sessionID,
		"metric_tick", e.cfg.MetricTick(),
		"node_tick", e.cfg.NodeTick())

	metricTicker := time.NewTicker(e.cfg.MetricTick())
	defer metricTicker.Stop()
	nodeTicker := time.NewTicker(e.cfg.NodeTick())
	defer nodeTicker.Stop()

	for {
		select {
		case <-metricTicker.C:
			e.metricTick(ctx)
		case <-nodeTicker.C:
			e.nodeTick(ctx)
		case <-ctx.Done():
			log.Info("stopping engine")
			return
		}
	}
}

// metricTick produces one sample, appends it to the window, and writes it.
func (e *Engine) metricTick(ctx context.Context) {
	log := logging.FromContext(ctx)

	e.mu.Lock()
	sample := e.gen.NextSample(e.now().UnixMilli())
	e.window.Append(sample)
	e.mu.Unlock()

	if e.writer == nil {
		return
	}
	if err := e.writer.Write(SampleRow{SessionID: e.sessionID, Sample: sample}); err != nil {
		log.Error("sample write failed", "err", err)
	}
}

// nodeTick evolves the population one step and writes the new snapshot.
func (e *Engine) nodeTick(ctx context.Context) {
	log := logging.FromContext(ctx)

	e.mu.Lock()
	e.population = e.nodeSim.Tick(e.population)
	snapshot := e.population
	e.mu.Unlock()

	if e.nodeWriter == nil {
		return
	}
	row := NodesRow{SessionID: e.sessionID, Timestamp: e.now().UTC(), Nodes: snapshot}
	if err := e.nodeWriter.WriteNodes(row); err != nil {
		log.Error("nodes write failed", "err", err)
	}
}

// SetRetention reselects the sliding-window duration and trims immediately.
func (e *Engine) SetRetention(minutes float64) {
	if minutes <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.RetentionMinutes = minutes
	max := metrics.MaxSamplesFor(minutes, int64(e.cfg.MetricTickMs))
	if max < 1 {
		max = 1
	}
	e.window.SetMax(max)
}

// WindowSnapshot returns a copy of the retained samples, oldest first.
func (e *Engine) WindowSnapshot() []metrics.Sample {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.Samples()
}

// PopulationSnapshot returns the current node population. Populations are
// functional snapshots, so no copy is needed.
func (e *Engine) PopulationSnapshot() nodes.Population {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.population
}

// Health returns aggregated status counts per region, in region config order.
func (e *Engine) Health() []RegionHealth {
	e.mu.Lock()
	defer e.mu.Unlock()

	byRegion := make(map[string]*RegionHealth)
	var result []RegionHealth
	order := make([]string, 0, len(e.cfg.Regions))
	for _, r := range e.cfg.Regions {
		order = append(order, r)
		byRegion[r] = &RegionHealth{Region: r}
	}
	for _, n := range e.population {
		h, ok := byRegion[n.Region]
		if !ok {
			h = &RegionHealth{Region: n.Region}
			byRegion[n.Region] = h
			order = append(order, n.Region)
		}
		h.Total++
		switch n.Status {
		case nodes.StatusHealthy:
			h.Healthy++
		case nodes.StatusDegraded:
			h.Degraded++
		case nodes.StatusDown:
			h.Down++
		}
	}
	for _, r := range order {
		result = append(result, *byRegion[r])
	}
	return result
}
