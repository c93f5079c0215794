// ColorStdoutWriter prints human-friendly, colorized rows to STDOUT.
package dash

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"infradash-sim/internal/config"
	"infradash-sim/internal/nodes"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"

	bgRed    = "\x1b[41m"
	bgYellow = "\x1b[43m"
	bgGreen  = "\x1b[42m"
)

func colorWhite() string { return "\x1b[37m" }

// StatusColors is the shared status→color mapping the presentation layers
// reuse for consistent labeling. Overridable.
var StatusColors = map[nodes.Status]string{
	nodes.StatusHealthy:  colorGreen,
	nodes.StatusDegraded: colorYellow,
	nodes.StatusDown:     colorRed,
}

// ColorStdoutWriter prints rows using ANSI colors. Colors are dropped when
// STDOUT is not a terminal.
type ColorStdoutWriter struct {
	cfg   *config.Config
	out   io.Writer
	once  sync.Once
	color bool
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Config) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:   cfg,
		out:   os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (w *ColorStdoutWriter) c(code string) string {
	if !w.color {
		return ""
	}
	return code
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Dashboard Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Population Size:\t%d\n", w.cfg.PopulationSize)
	fmt.Fprintf(tw, "Regions:\t%v\n", w.cfg.Regions)
	fmt.Fprintf(tw, "Metric Tick (ms):\t%d\n", w.cfg.MetricTickMs)
	fmt.Fprintf(tw, "Node Tick (ms):\t%d\n", w.cfg.NodeTickMs)
	fmt.Fprintf(tw, "Retention (min):\t%.0f\n", w.cfg.RetentionMinutes)
	fmt.Fprintf(tw, "Alert Threshold (%%):\t%.2f\n", w.cfg.AlertThresholdPercent)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single sample row as one colorized line. The error-rate
// field turns red once it crosses the alert threshold.
func (w *ColorStdoutWriter) Write(row SampleRow) error {
	w.once.Do(w.printOverview)

	errColor := w.c(colorGreen)
	threshold := 1.0
	if w.cfg != nil && w.cfg.AlertThresholdPercent > 0 {
		threshold = w.cfg.AlertThresholdPercent
	}
	if row.ErrorRatePercent >= threshold {
		errColor = w.c(colorRed)
	}

	ts := time.UnixMilli(row.Timestamp).UTC().Format(time.RFC3339)
	fmt.Fprintf(w.out, "%s[%s]%s %scpu=%.1f%%%s %smem=%.1f%%%s %srps=%d%s %sp50=%.1fms%s %sp95=%.1fms%s %sp99=%.1fms%s %serr=%.2f%%%s\n",
		w.c(colorGray), ts, w.c(colorReset),
		w.c(colorBlue), row.CPUPercent, w.c(colorReset),
		w.c(colorMagenta), row.MemoryPercent, w.c(colorReset),
		w.c(colorCyan), row.RequestsPerSecond, w.c(colorReset),
		w.c(colorGreen), row.P50Ms, w.c(colorReset),
		w.c(colorYellow), row.P95Ms, w.c(colorReset),
		w.c(colorRed), row.P99Ms, w.c(colorReset),
		errColor, row.ErrorRatePercent, w.c(colorReset),
	)
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *ColorStdoutWriter) WriteBatch(rows []SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteNodes outputs a one-line status summary per region followed by the
// node dots.
func (w *ColorStdoutWriter) WriteNodes(row NodesRow) error {
	w.once.Do(w.printOverview)

	byRegion := make(map[string][]string)
	var order []string
	for _, n := range row.Nodes {
		if _, ok := byRegion[n.Region]; !ok {
			order = append(order, n.Region)
		}
		dot := fmt.Sprintf("%s●%s", w.c(StatusColors[n.Status]), w.c(colorReset))
		byRegion[n.Region] = append(byRegion[n.Region], dot)
	}
	fmt.Fprintf(w.out, "%s[%s]%s %sNODES%s", w.c(colorGray), row.Timestamp.Format(time.RFC3339), w.c(colorReset), w.c(colorBlue), w.c(colorReset))
	for _, region := range order {
		fmt.Fprintf(w.out, " %s%s%s=", w.c(colorWhite()), region, w.c(colorReset))
		for _, dot := range byRegion[region] {
			fmt.Fprint(w.out, dot)
		}
	}
	fmt.Fprintln(w.out)
	return nil
}
