package main

import (
	"infradash-sim/internal/config"
	"infradash-sim/internal/dash"
)

// newWriters sets up sample and node writers based on flags. It returns the
// writers and a cleanup function to close any resources.
func newWriters(cfg *config.Config, jsonOut bool, logFile string) (dash.MetricWriter, dash.NodeWriter, func(), error) {
	cleanup := func() {}

	writer, nodeWriter := baseWriters(cfg, jsonOut)
	if logFile == "" {
		return writer, nodeWriter, cleanup, nil
	}

	fw, err := dash.NewFileWriter(logFile, logFile+".nodes")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := dash.NewMultiWriter(
		[]dash.MetricWriter{writer, fw},
		[]dash.NodeWriter{nodeWriter, fw},
	)
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying stdout writers. JSON output is meant for
// piping; the color writer is for watching a terminal.
func baseWriters(cfg *config.Config, jsonOut bool) (dash.MetricWriter, dash.NodeWriter) {
	if jsonOut {
		w := dash.NewStdoutWriter()
		return w, w
	}
	w := dash.NewColorStdoutWriter(cfg)
	return w, w
}

// newMetricWriter creates a sample writer without node handling, for replay.
func newMetricWriter(cfg *config.Config, jsonOut bool) dash.MetricWriter {
	w, _ := baseWriters(cfg, jsonOut)
	return w
}
