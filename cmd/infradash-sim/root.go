package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootDebug bool

var rootCmd = &cobra.Command{
	Use:   "infradash-sim",
	Short: "Infrastructure dashboard simulation toolkit",
	Long:  "infradash-sim generates correlated infrastructure telemetry and node health data for dashboard development.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(replayCmd)
}
