package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"infradash-sim/internal/config"
	"infradash-sim/internal/dash"
	"infradash-sim/internal/metrics"
)

var (
	backfillConfigPath string
	backfillSchemaPath string
	backfillMinutes    float64
	backfillIntervalMs int64
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Generate a historical sample batch",
	Long:  "backfill emits a continuous run of samples ending at the current time as JSON lines, for seeding charts or fixtures.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(backfillConfigPath, backfillSchemaPath)
		if err != nil {
			return err
		}
		minutes := backfillMinutes
		if minutes <= 0 {
			minutes = cfg.RetentionMinutes
		}
		interval := backfillIntervalMs
		if interval <= 0 {
			interval = int64(cfg.MetricTickMs)
		}

		gen := metrics.NewGenerator(metrics.Tuning{
			SpikeChance:          cfg.Tuning.SpikeChance,
			SpikeCooldownTicks:   cfg.Tuning.SpikeCooldownTicks,
			RecoveryPlateauTicks: cfg.Tuning.RecoveryPlateauTicks,
		})
		sessionID := uuid.New().String()
		samples := gen.Backfill(minutes, interval)
		rows := make([]dash.SampleRow, 0, len(samples))
		for _, s := range samples {
			rows = append(rows, dash.SampleRow{SessionID: sessionID, Sample: s})
		}
		return dash.NewStdoutWriter().WriteBatch(rows)
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillConfigPath, "config", "config/dashboard.yaml", "Path to dashboard configuration YAML")
	backfillCmd.Flags().StringVar(&backfillSchemaPath, "schema", "schemas/dashboard.cue", "Path to CUE schema file")
	backfillCmd.Flags().Float64Var(&backfillMinutes, "minutes", 0, "Backfill duration in minutes (defaults to retention)")
	backfillCmd.Flags().Int64Var(&backfillIntervalMs, "interval", 0, "Sample interval in milliseconds (defaults to metric tick)")
}
