// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
	yamlv3 "gopkg.in/yaml.v3"
)

// Tuning exposes the stochastic constants of the generators. Values left at
// zero keep the stock behavior.
type Tuning struct {
	SpikeChance          float64 `yaml:"spike_chance"`
	SpikeCooldownTicks   int     `yaml:"spike_cooldown_ticks"`
	RecoveryPlateauTicks int     `yaml:"recovery_plateau_ticks"`
	NodeRecoveryChance   float64 `yaml:"node_recovery_chance"`
	NodeDeclineChance    float64 `yaml:"node_decline_chance"`
}

// Config is the root configuration for the dashboard simulation.
type Config struct {
	PopulationSize        int      `yaml:"population_size"`
	Regions               []string `yaml:"regions"`
	MetricTickMs          int      `yaml:"metric_tick_ms"`
	NodeTickMs            int      `yaml:"node_tick_ms"`
	RetentionMinutes      float64  `yaml:"retention_minutes"`
	AlertThresholdPercent float64  `yaml:"alert_threshold_percent"`
	HealthyThreshold      float64  `yaml:"healthy_threshold"`
	DegradedThreshold     float64  `yaml:"degraded_threshold"`
	Tuning                Tuning   `yaml:"tuning"`
}

// Default returns the stock configuration: 24 nodes over 4 regions, 2s metric
// ticks, 3s node ticks, 15 minutes of retention, 1% alert threshold.
func Default() *Config {
	return &Config{
		PopulationSize:        24,
		Regions:               []string{"us-east", "us-west", "eu-central", "ap-south"},
		MetricTickMs:          2000,
		NodeTickMs:            3000,
		RetentionMinutes:      15,
		AlertThresholdPercent: 1.0,
		HealthyThreshold:      80,
		DegradedThreshold:     40,
	}
}

// Load loads YAML config and validates it against a CUE schema. Unset fields
// fall back to defaults.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// ValidateWithCue validates a YAML configuration file using a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	yamlFile, err := yaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(yamlFile)

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)

	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.PopulationSize <= 0 {
		c.PopulationSize = d.PopulationSize
	}
	if len(c.Regions) == 0 {
		c.Regions = d.Regions
	}
	if c.MetricTickMs <= 0 {
		c.MetricTickMs = d.MetricTickMs
	}
	if c.NodeTickMs <= 0 {
		c.NodeTickMs = d.NodeTickMs
	}
	if c.RetentionMinutes <= 0 {
		c.RetentionMinutes = d.RetentionMinutes
	}
	if c.AlertThresholdPercent <= 0 {
		c.AlertThresholdPercent = d.AlertThresholdPercent
	}
	if c.HealthyThreshold <= 0 {
		c.HealthyThreshold = d.HealthyThreshold
	}
	if c.DegradedThreshold <= 0 {
		c.DegradedThreshold = d.DegradedThreshold
	}
}

// MetricTick returns the metric cadence as a duration.
func (c *Config) MetricTick() time.Duration {
	return time.Duration(c.MetricTickMs) * time.Millisecond
}

// NodeTick returns the node cadence as a duration.
func (c *Config) NodeTick() time.Duration {
	return time.Duration(c.NodeTickMs) * time.Millisecond
}

// MaxSamples translates the retention duration into a window bound.
func (c *Config) MaxSamples() int {
	n := int(c.RetentionMinutes * 60000 / float64(c.MetricTickMs))
	if n < 1 {
		n = 1
	}
	return n
}
