package dash

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"infradash-sim/internal/config"
	"infradash-sim/internal/metrics"
	"infradash-sim/internal/nodes"
)

func sampleRowFixture() SampleRow {
	return SampleRow{
		SessionID: "session-1",
		Sample: metrics.Sample{
			Timestamp:         1700000000000,
			CPUPercent:        51.2,
			MemoryPercent:     63.4,
			RequestsPerSecond: 1120,
			P50Ms:             82.1,
			P95Ms:             197.3,
			P99Ms:             391.6,
			ErrorRatePercent:  0.14,
		},
	}
}

func nodesRowFixture() NodesRow {
	return NodesRow{
		SessionID: "session-1",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Nodes: nodes.Population{
			{ID: "node-01", Region: "us-east", Load: 40, Health: 95, Status: nodes.StatusHealthy},
			{ID: "node-02", Region: "us-west", Load: 60, Health: 35, Status: nodes.StatusDown},
		},
	}
}

func TestStdoutWriter_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	w := &StdoutWriter{out: &buf}

	if err := w.Write(sampleRowFixture()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := w.WriteNodes(nodesRowFixture()); err != nil {
		t.Fatalf("WriteNodes returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", len(lines))
	}
	var row SampleRow
	if err := json.Unmarshal([]byte(lines[0]), &row); err != nil {
		t.Fatalf("sample line is not valid JSON: %v", err)
	}
	if row.SessionID != "session-1" || row.RequestsPerSecond != 1120 {
		t.Errorf("unexpected sample row: %+v", row)
	}
	var nrow NodesRow
	if err := json.Unmarshal([]byte(lines[1]), &nrow); err != nil {
		t.Fatalf("nodes line is not valid JSON: %v", err)
	}
	if len(nrow.Nodes) != 2 || nrow.Nodes[1].Status != nodes.StatusDown {
		t.Errorf("unexpected nodes row: %+v", nrow)
	}
}

func TestColorStdoutWriter_AlertHighlight(t *testing.T) {
	var buf bytes.Buffer
	w := &ColorStdoutWriter{cfg: config.Default(), out: &buf, color: true}

	row := sampleRowFixture()
	row.ErrorRatePercent = 3.2
	if err := w.Write(row); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, colorRed+"err=3.20%") {
		t.Errorf("error rate above threshold should render red: %q", out)
	}
	if !strings.Contains(out, "Dashboard Configuration:") {
		t.Errorf("first write should print the config overview")
	}
}

func TestColorStdoutWriter_NoColorWhenNotTTY(t *testing.T) {
	var buf bytes.Buffer
	w := &ColorStdoutWriter{cfg: config.Default(), out: &buf, color: false}

	if err := w.Write(sampleRowFixture()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("non-tty output must not contain ANSI escapes: %q", buf.String())
	}
}

func TestColorStdoutWriter_WriteNodes(t *testing.T) {
	var buf bytes.Buffer
	w := &ColorStdoutWriter{cfg: config.Default(), out: &buf, color: true}

	if err := w.WriteNodes(nodesRowFixture()); err != nil {
		t.Fatalf("WriteNodes returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "us-east") || !strings.Contains(out, "us-west") {
		t.Errorf("expected per-region output: %q", out)
	}
	if !strings.Contains(out, StatusColors[nodes.StatusDown]+"●") {
		t.Errorf("down node should use the shared status color: %q", out)
	}
}
