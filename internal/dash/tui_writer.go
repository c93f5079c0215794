package dash

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"infradash-sim/internal/config"
	"infradash-sim/internal/metrics"
	"infradash-sim/internal/nodes"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// sampleMsg carries one sample for the chart window.
type sampleMsg struct{ SampleRow }

// nodesMsg carries a node population snapshot.
type nodesMsg struct{ NodesRow }

type setRetentionMsg struct{ fn func(float64) }

const (
	maxLogLines     = 1000
	sparkChars      = "▁▂▃▄▅▆▇█"
	fallbackMinutes = "15"
)

// retentionChoices are the selectable sliding-window durations in minutes.
var retentionChoices = []float64{5, 15, 30, 60}

func validRetention(minutes float64) bool {
	for _, c := range retentionChoices {
		if minutes == c {
			return true
		}
	}
	return false
}

// TUIWriter renders samples and node health using a bubbletea dashboard.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.Config) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements MetricWriter.
func (w *TUIWriter) Write(row SampleRow) error {
	errColor := colorGreen
	if row.ErrorRatePercent >= 1.0 {
		errColor = colorRed
	}
	ts := time.UnixMilli(row.Timestamp).UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s[%s]%s %scpu=%.1f%s %smem=%.1f%s %srps=%d%s %sp50=%.1f%s %sp95=%.1f%s %sp99=%.1f%s %serr=%.2f%s",
		colorGray, ts, colorReset,
		colorBlue, row.CPUPercent, colorReset,
		colorMagenta, row.MemoryPercent, colorReset,
		colorCyan, row.RequestsPerSecond, colorReset,
		colorGreen, row.P50Ms, colorReset,
		colorYellow, row.P95Ms, colorReset,
		colorRed, row.P99Ms, colorReset,
		errColor, row.ErrorRatePercent, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(sampleMsg{row})
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *TUIWriter) WriteBatch(rows []SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteNodes implements NodeWriter.
func (w *TUIWriter) WriteNodes(row NodesRow) error {
	w.program.Send(nodesMsg{row})
	return nil
}

// Seed preloads the chart window, typically from an engine backfill.
func (w *TUIWriter) Seed(sessionID string, samples []metrics.Sample) {
	for _, s := range samples {
		w.program.Send(sampleMsg{SampleRow{SessionID: sessionID, Sample: s}})
	}
}

// SetRetentionFunc registers a callback invoked when the user reselects the
// window duration.
func (w *TUIWriter) SetRetentionFunc(fn func(float64)) {
	w.program.Send(setRetentionMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg             *config.Config
	table           table.Model
	vp              viewport.Model
	logs            []string
	samples         []metrics.Sample
	pop             nodes.Population
	popAt           time.Time
	setRetention    func(float64)
	retentionInput  textinput.Model
	retentionDialog bool
	wrap            bool
	autoscroll      bool
	summary         bool
	help            bool
	showNodes       bool
	header          string
	headerHeight    int
	height          int
}

func newTUIModel(cfg *config.Config) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 12},
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 12},
	}
	rows := []table.Row{
		{"Population Size", fmt.Sprintf("%d", cfg.PopulationSize), "Regions", fmt.Sprintf("%d", len(cfg.Regions))},
		{"Metric Tick (ms)", fmt.Sprintf("%d", cfg.MetricTickMs), "Node Tick (ms)", fmt.Sprintf("%d", cfg.NodeTickMs)},
		{"Retention (min)", fmt.Sprintf("%.0f", cfg.RetentionMinutes), "Alert Threshold (%)", fmt.Sprintf("%.2f", cfg.AlertThresholdPercent)},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	vp := viewport.New(0, 0)
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         vp,
		autoscroll: true,
		summary:    true,
		showNodes:  true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.retentionDialog {
			switch msg.Type {
			case tea.KeyEnter:
				if minutes, err := strconv.ParseFloat(strings.TrimSpace(m.retentionInput.Value()), 64); err == nil && validRetention(minutes) {
					m.cfg.RetentionMinutes = minutes
					if m.setRetention != nil {
						go m.setRetention(minutes)
					}
					m.trimSamples()
					m.refreshTable()
				}
				m.retentionDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.retentionDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.retentionInput, cmd = m.retentionInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "r":
			m.retentionInput = textinput.New()
			m.retentionInput.Placeholder = "minutes (5/15/30/60)"
			m.retentionInput.SetValue(fallbackMinutes)
			m.retentionInput.CursorEnd()
			m.retentionInput.Focus()
			m.retentionDialog = true
			m.updateViewportHeight()
			return m, nil
		case "n":
			m.showNodes = !m.showNodes
			m.updateViewportHeight()
			return m, nil
		case "t":
			m.summary = !m.summary
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case sampleMsg:
		m.samples = append(m.samples, msg.Sample)
		m.trimSamples()
	case nodesMsg:
		m.pop = msg.Nodes
		m.popAt = msg.Timestamp
		m.updateViewportHeight()
	case setRetentionMsg:
		m.setRetention = msg.fn
	}
	return m, nil
}

// trimSamples keeps the chart window aligned with the retention bound.
func (m *tuiModel) trimSamples() {
	max := metrics.MaxSamplesFor(m.cfg.RetentionMinutes, int64(m.cfg.MetricTickMs))
	if max < 1 {
		max = 1
	}
	if len(m.samples) > max {
		m.samples = m.samples[len(m.samples)-max:]
	}
}

func (m *tuiModel) refreshTable() {
	rows := []table.Row{
		{"Population Size", fmt.Sprintf("%d", m.cfg.PopulationSize), "Regions", fmt.Sprintf("%d", len(m.cfg.Regions))},
		{"Metric Tick (ms)", fmt.Sprintf("%d", m.cfg.MetricTickMs), "Node Tick (ms)", fmt.Sprintf("%d", m.cfg.NodeTickMs)},
		{"Retention (min)", fmt.Sprintf("%.0f", m.cfg.RetentionMinutes), "Alert Threshold (%)", fmt.Sprintf("%.2f", m.cfg.AlertThresholdPercent)},
	}
	m.table.SetRows(rows)
	m.header = m.renderHeader()
	m.headerHeight = lipgloss.Height(m.header)
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())
	chartsHeight := lipgloss.Height(m.renderCharts())
	nodesHeight := 0
	if m.showNodes || m.retentionDialog {
		nodesHeight = lipgloss.Height(m.renderNodes())
	}
	h := m.height - m.headerHeight - bottomHeight - chartsHeight - nodesHeight - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.renderCharts(),
		divider,
	}
	if m.showNodes || m.retentionDialog {
		sections = append(sections, m.renderNodes(), divider)
	}
	sections = append(sections, m.vp.View(), divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	return m.table.View()
}

// sparkline renders values as a block-character strip. lo and hi pin the
// scale; hi <= lo autoscales to the data.
func sparkline(values []float64, width int, lo, hi float64) string {
	if len(values) == 0 || width < 1 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if hi <= lo {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if hi == lo {
			hi = lo + 1
		}
	}
	runes := []rune(sparkChars)
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / (hi - lo) * float64(len(runes)-1))
		if idx < 0 {
			idx = 0
		}
		if idx > len(runes)-1 {
			idx = len(runes) - 1
		}
		b.WriteRune(runes[idx])
	}
	return b.String()
}

func (m tuiModel) chartWidth() int {
	w := m.vp.Width - 14
	if w < 10 {
		w = 10
	}
	return w
}

func (m tuiModel) renderCharts() string {
	n := len(m.samples)
	cpu := make([]float64, n)
	mem := make([]float64, n)
	rps := make([]float64, n)
	p95 := make([]float64, n)
	errs := make([]float64, n)
	for i, s := range m.samples {
		cpu[i] = s.CPUPercent
		mem[i] = s.MemoryPercent
		rps[i] = float64(s.RequestsPerSecond)
		p95[i] = s.P95Ms
		errs[i] = s.ErrorRatePercent
	}
	w := m.chartWidth()
	var last metrics.Sample
	if n > 0 {
		last = m.samples[n-1]
	}
	errColor := colorGreen
	if last.ErrorRatePercent >= m.cfg.AlertThresholdPercent {
		errColor = colorRed
	}
	lines := []string{
		fmt.Sprintf("%scpu%%%s   %s %5.1f", colorBlue, colorReset, sparkline(cpu, w, 0, 100), last.CPUPercent),
		fmt.Sprintf("%smem%%%s   %s %5.1f", colorMagenta, colorReset, sparkline(mem, w, 0, 100), last.MemoryPercent),
		fmt.Sprintf("%srps%s    %s %5d", colorCyan, colorReset, sparkline(rps, w, 0, 0), last.RequestsPerSecond),
		fmt.Sprintf("%sp95ms%s  %s %5.1f", colorYellow, colorReset, sparkline(p95, w, 0, 0), last.P95Ms),
		fmt.Sprintf("%serr%%%s   %s %5.2f", errColor, colorReset, sparkline(errs, w, 0, 0), last.ErrorRatePercent),
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderNodes() string {
	if m.retentionDialog {
		return fmt.Sprintf("Retention minutes (5/15/30/60) - Enter to apply, Esc to cancel: %s", m.retentionInput.View())
	}
	if len(m.pop) == 0 {
		return "Nodes: none"
	}
	byRegion := make(map[string]nodes.Population)
	var order []string
	for _, n := range m.pop {
		if _, ok := byRegion[n.Region]; !ok {
			order = append(order, n.Region)
		}
		byRegion[n.Region] = append(byRegion[n.Region], n)
	}
	var b strings.Builder
	b.WriteString("Nodes:\n")
	for i, region := range order {
		prefix := "├─"
		if i == len(order)-1 {
			prefix = "└─"
		}
		b.WriteString(fmt.Sprintf("%s %s ", prefix, region))
		for _, n := range byRegion[region] {
			b.WriteString(fmt.Sprintf("%s●%s", StatusColors[n.Status], colorReset))
		}
		healthy, degraded, down := 0, 0, 0
		for _, n := range byRegion[region] {
			switch n.Status {
			case nodes.StatusHealthy:
				healthy++
			case nodes.StatusDegraded:
				degraded++
			case nodes.StatusDown:
				down++
			}
		}
		b.WriteString(fmt.Sprintf("  %s%d ok%s %s%d deg%s %s%d down%s\n",
			colorGreen, healthy, colorReset,
			colorYellow, degraded, colorReset,
			colorRed, down, colorReset))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderSummary() string {
	if len(m.samples) == 0 {
		return ""
	}
	var cpuSum, errSum float64
	for _, s := range m.samples {
		cpuSum += s.CPUPercent
		errSum += s.ErrorRatePercent
	}
	n := float64(len(m.samples))
	healthy, degraded, down := 0, 0, 0
	for _, nd := range m.pop {
		switch nd.Status {
		case nodes.StatusHealthy:
			healthy++
		case nodes.StatusDegraded:
			degraded++
		case nodes.StatusDown:
			down++
		}
	}
	return fmt.Sprintf("%sSUMMARY%s %ssamples=%d%s %savg_cpu=%.1f%s %savg_err=%.2f%s %snodes=%s%d%s/%s%d%s/%s%d%s",
		colorBlue, colorReset,
		colorWhite(), len(m.samples), colorReset,
		colorCyan, cpuSum/n, colorReset,
		colorYellow, errSum/n, colorReset,
		colorWhite(),
		colorGreen, healthy, colorReset,
		colorYellow, degraded, colorReset,
		colorRed, down, colorReset)
}

func (m tuiModel) renderBottom() string {
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	scrollColor := lipgloss.Color("10")
	if !m.autoscroll {
		scrollColor = lipgloss.Color("9")
	}
	nodesColor := lipgloss.Color("10")
	if !m.showNodes {
		nodesColor = lipgloss.Color("9")
	}
	summaryColor := lipgloss.Color("9")
	if m.summary {
		summaryColor = lipgloss.Color("10")
	}
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	scrollIndicator := lipgloss.NewStyle().Foreground(scrollColor).Render("●")
	nodesIndicator := lipgloss.NewStyle().Foreground(nodesColor).Render("●")
	summaryIndicator := lipgloss.NewStyle().Foreground(summaryColor).Render("●")
	line := fmt.Sprintf("Retention %.0fm | Wrap %s | Scroll %s | Nodes %s | Summary %s | ? help",
		m.cfg.RetentionMinutes, wrapIndicator, scrollIndicator, nodesIndicator, summaryIndicator)
	if m.summary {
		if s := m.renderSummary(); s != "" {
			return fmt.Sprintf("%s\n%s", s, line)
		}
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" r  reselect retention window (minutes)",
		" w  toggle wrap for sample log",
		" s  toggle auto-scroll",
		" n  toggle nodes section",
		" t  toggle summary footer",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
