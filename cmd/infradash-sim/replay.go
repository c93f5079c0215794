package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"infradash-sim/internal/config"
	"infradash-sim/internal/dash"
)

var (
	replayInput string
	replaySpeed float64
	replayJSON  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a sample log file",
	Long:  "replay feeds sample rows from a JSONL log back to STDOUT at their recorded pacing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer := newMetricWriter(config.Default(), replayJSON)
		return dash.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to sample log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print rows as plain JSON lines instead of the color format")
	replayCmd.MarkFlagRequired("input")
}
