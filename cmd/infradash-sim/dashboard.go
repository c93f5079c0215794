package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"infradash-sim/internal/config"
	"infradash-sim/internal/dash"
	"infradash-sim/internal/logging"
)

var (
	dashConfigPath string
	dashSchemaPath string
	dashLogFile    string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the interactive terminal dashboard",
	Long:  "dashboard starts the simulation with a full-screen TUI showing charts, node health, and a sample log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(dashConfigPath, dashSchemaPath)
		if err != nil {
			return err
		}

		tui := dash.NewTUIWriter(cfg)

		var writer dash.MetricWriter = tui
		var nodeWriter dash.NodeWriter = tui
		cleanup := func() {}
		if dashLogFile != "" {
			fw, err := dash.NewFileWriter(dashLogFile, dashLogFile+".nodes")
			if err != nil {
				return err
			}
			mw := dash.NewMultiWriter(
				[]dash.MetricWriter{tui, fw},
				[]dash.NodeWriter{tui, fw},
			)
			writer, nodeWriter = mw, mw
			cleanup = func() { fw.Close() }
		}
		defer cleanup()

		// The alt screen owns the terminal, so engine logs are discarded.
		log := logging.NewWithWriter(io.Discard, rootDebug)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		engine := dash.NewEngine(cfg, writer, nodeWriter)
		tui.Seed(engine.SessionID(), engine.WindowSnapshot())
		tui.SetRetentionFunc(engine.SetRetention)
		go engine.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		return tui.Close()
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashConfigPath, "config", "config/dashboard.yaml", "Path to dashboard configuration YAML")
	dashboardCmd.Flags().StringVar(&dashSchemaPath, "schema", "schemas/dashboard.cue", "Path to CUE schema file")
	dashboardCmd.Flags().StringVar(&dashLogFile, "log-file", "", "Path to export sample/node logs (JSONL)")
}
