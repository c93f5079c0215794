package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"infradash-sim/internal/config"
	"infradash-sim/internal/dash"
	"infradash-sim/internal/logging"
)

var (
	simJSON       bool
	simConfigPath string
	simSchemaPath string
	simLogFile    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the headless telemetry simulator",
	Long:  "simulate starts the metric and node generators and streams rows to STDOUT, optionally exporting a JSONL log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		writer, nodeWriter, cleanup, err := newWriters(cfg, simJSON, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		log := logging.New(rootDebug)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		engine := dash.NewEngine(cfg, writer, nodeWriter)
		go engine.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		log.Info("simulation stopped", "session_id", engine.SessionID())
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "Print rows as plain JSON lines instead of the color format")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/dashboard.yaml", "Path to dashboard configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/dashboard.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export sample/node logs (JSONL)")
}
