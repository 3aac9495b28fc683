// Package monitor implements the live equipment dashboard TUI using
// BubbleTea with sparkline charts, threshold coloring and an alert feed.
package monitor

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shved/plantwatch/internal/alerts"
	"github.com/shved/plantwatch/internal/chart"
	"github.com/shved/plantwatch/internal/config"
	"github.com/shved/plantwatch/internal/equipment"
	"github.com/shved/plantwatch/internal/history"
	"github.com/shved/plantwatch/internal/store"
	"github.com/shved/plantwatch/internal/telemetry"
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg struct {
	readings []equipment.Reading
	time     time.Time
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live dashboard.
type Model struct {
	source   telemetry.Source
	fallback *telemetry.Fallback
	interval time.Duration

	readings  []equipment.Reading
	alertList []machineAlert
	history   *history.Store
	store     *store.DiskStore
	order     []string
	err       error
	width     int
	height    int
	scroll    int
	lastPoll  time.Time
	startTime time.Time
	paused    bool
}

type machineAlert struct {
	machine string
	alert   alerts.Alert
}

// New creates the initial model. fallback may be nil when the source is
// not a degradable pair.
func New(cfg *config.Config, source telemetry.Source, fallback *telemetry.Fallback) Model {
	ds, err := store.New(cfg.DataDir)
	m := Model{
		source:    source,
		fallback:  fallback,
		interval:  cfg.PollInterval,
		history:   history.NewStore(cfg.HistorySize),
		store:     ds,
		startTime: time.Now(),
	}
	if err != nil {
		m.err = fmt.Errorf("disk store: %w", err)
	}
	return m
}

// Run builds the telemetry source from cfg and drives the dashboard
// until the user quits.
func Run(cfg *config.Config) error {
	sim := telemetry.NewSimulator(cfg.Fleet, time.Now().UnixNano())

	var (
		source   telemetry.Source = sim
		fallback *telemetry.Fallback
	)
	if cfg.Endpoint != "" {
		fallback = telemetry.NewFallback(telemetry.NewHTTPSource(cfg.Endpoint, cfg.Token), sim)
		source = fallback
	}

	p := tea.NewProgram(New(cfg, source, fallback), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func pollCmd(source telemetry.Source) tea.Cmd {
	return func() tea.Msg {
		readings, err := source.Poll(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg{readings: readings, time: time.Now()}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(pollCmd(m.source), tickCmd(m.interval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.store != nil {
				m.store.Close()
			}
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, tickCmd(m.interval)
		}
		return m, tea.Batch(pollCmd(m.source), tickCmd(m.interval))

	case snapshotMsg:
		m.readings = msg.readings
		m.lastPoll = msg.time
		m.err = nil
		for _, r := range msg.readings {
			for _, met := range equipment.Metrics {
				m.history.Record(r.SeriesKey(met.Name), r.Value(met.Name), msg.time)
			}
		}
		m.order = buildOrder(m.readings, m.order)
		m.alertList = classifyAll(m.readings)

		if m.store != nil {
			if err := m.store.Write(msg.readings, msg.time); err != nil {
				m.err = fmt.Errorf("write: %w", err)
			}
		}

	case errMsg:
		m.err = msg.err
		return m, tickCmd(m.interval)
	}

	return m, nil
}

func classifyAll(readings []equipment.Reading) []machineAlert {
	var out []machineAlert
	for _, r := range readings {
		for _, a := range alerts.Classify(r) {
			out = append(out, machineAlert{machine: r.Machine, alert: a})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].alert.Severity.Rank() > out[j].alert.Severity.Rank()
	})
	return out
}

func buildOrder(readings []equipment.Reading, existing []string) []string {
	seen := make(map[string]bool)
	for _, k := range existing {
		seen[k] = true
	}
	var newKeys []string
	for _, r := range readings {
		k := r.Key()
		if !seen[k] {
			newKeys = append(newKeys, k)
			seen[k] = true
		}
	}
	sort.Strings(newKeys)
	return append(existing, newKeys...)
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorName     = lipgloss.Color("147")
	colorKind     = lipgloss.Color("243")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorHigh     = lipgloss.Color("208")
	colorCrit     = lipgloss.Color("196")
	colorPaused   = lipgloss.Color("196")
)

func severityColor(s alerts.Severity) lipgloss.Color {
	switch s {
	case alerts.SeverityCritical:
		return colorCrit
	case alerts.SeverityHigh:
		return colorHigh
	case alerts.SeverityMedium:
		return colorWarn
	default:
		return colorDim
	}
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case equipment.StatusCritical:
		return colorCrit
	case equipment.StatusWarning:
		return colorWarn
	case equipment.StatusMaintenance:
		return colorName
	case equipment.StatusIdle:
		return colorDim
	default:
		return colorOk
	}
}

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	if len(m.readings) == 0 {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for telemetry...")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, m.renderMachinePanels(contentWidth)...)
		sections = append(sections, m.renderAlertPanel(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}

	start := m.scroll
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("PLANTWATCH MONITOR")

	var statusParts []string

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	if !m.lastPoll.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.lastPoll.Format("15:04:05"))
		statusParts = append(statusParts, ts)
	}

	if m.fallback != nil {
		if degraded, _ := m.fallback.Degraded(); degraded {
			badge := lipgloss.NewStyle().
				Foreground(colorHigh).
				Bold(true).
				Render("SIM")
			statusParts = append(statusParts, badge)
		}
	}

	if m.paused {
		p := lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED")
		statusParts = append(statusParts, p)
	}

	if m.store != nil {
		rec := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render("REC") +
			lipgloss.NewStyle().
				Foreground(colorDim).
				Render(" "+m.store.Dir())
		statusParts = append(statusParts, rec)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderMachinePanels(totalWidth int) []string {
	byKey := make(map[string]equipment.Reading, len(m.readings))
	for _, r := range m.readings {
		byKey[r.Key()] = r
	}

	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}

	chartWidth := innerWidth - 60
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	labelW := 14
	valueW := 12

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var panels []string

	for _, key := range m.order {
		r, ok := byKey[key]
		if !ok {
			continue
		}

		var rows []string

		friendly := lipgloss.NewStyle().
			Bold(true).
			Foreground(colorName).
			Render(equipment.FriendlyName(r.Kind))
		id := lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Render(r.Machine)
		kind := lipgloss.NewStyle().
			Foreground(colorKind).
			Render(r.Kind)
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(statusColor(r.Status)).
			Render(strings.ToUpper(r.Status))
		rows = append(rows, friendly+"  "+id+"  "+kind+"  "+badge)

		var lastPts []history.Point

		for _, met := range equipment.Metrics {
			hist := m.history.Get(r.SeriesKey(met.Name))
			if hist == nil {
				continue
			}

			warn, crit, hasThresh := alerts.Thresholds(met.Name)

			rangeMin := math.Max(0, hist.Min-hist.Min*0.1)
			rangeMax := hist.Peak + hist.Peak*0.1
			if hasThresh && crit > rangeMax {
				rangeMax = crit * 1.05
			}

			label := lipgloss.NewStyle().
				Foreground(colorLabel).
				Width(labelW).
				Render(truncate(met.Label, labelW))

			value := lipgloss.NewStyle().
				Width(valueW).
				Align(lipgloss.Right).
				Render(chart.RenderMetricValue(r.Value(met.Name), met.Unit, warn, crit, hasThresh, hasThresh))

			pts := hist.LastNPoints(chartWidth)
			lastPts = pts
			spark := chart.RenderSparklinePoints(pts, chartWidth, rangeMin, rangeMax, warn, crit, hasThresh, hasThresh)
			framedSpark := frameL + spark + frameR

			stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%7.1f", hist.Avg())) +
				dimS.Render(" lo") + valS.Render(fmt.Sprintf("%7.1f", hist.Min)) +
				dimS.Render(" pk") + valS.Render(fmt.Sprintf("%7.1f", hist.Peak))

			var threshTags string
			if hasThresh {
				threshTags = dimS.Render(" W") + lipgloss.NewStyle().Foreground(colorWarn).Render(fmtThreshold(warn)) +
					dimS.Render(" C") + lipgloss.NewStyle().Foreground(colorCrit).Render(fmtThreshold(crit))
			}

			rows = append(rows, label+" "+value+" "+framedSpark+stats+threshTags)
		}

		rows = append(rows, m.renderConditionRow(r))

		if lastPts != nil {
			timeline := chart.RenderTimeline(lastPts, chartWidth)
			if strings.TrimSpace(timeline) != "" {
				pad := strings.Repeat(" ", labelW+valueW+2)
				rows = append(rows, pad+" "+timeline)
			}
		}

		panelContent := lipgloss.JoinVertical(lipgloss.Left, rows...)
		panel := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(totalWidth).
			Render(panelContent)

		panels = append(panels, panel)
	}

	return panels
}

// renderConditionRow shows the summary condition labels for one machine.
func (m Model) renderConditionRow(r equipment.Reading) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	labelS := lipgloss.NewStyle().Foreground(colorLabel)

	parts := []string{
		dimS.Render("temp ") + labelS.Render(alerts.TemperatureLabel(r.Temperature)),
		dimS.Render("press ") + labelS.Render(alerts.PressureLabel(r.Pressure)),
		dimS.Render("vib ") + labelS.Render(alerts.VibrationLabel(r.Vibration)),
		dimS.Render("eff ") + labelS.Render(alerts.EfficiencyLabel(r.Efficiency)),
	}
	return strings.Join(parts, dimS.Render("  │  "))
}

func (m Model) renderAlertPanel(totalWidth int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorName).
		Render("ACTIVE ALERTS")

	rows := []string{title}

	if len(m.alertList) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(colorOk).Render("All systems nominal"))
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	for _, ma := range m.alertList {
		sev := lipgloss.NewStyle().
			Bold(true).
			Foreground(severityColor(ma.alert.Severity)).
			Render(fmt.Sprintf("%-8s", strings.ToUpper(string(ma.alert.Severity))))
		machine := lipgloss.NewStyle().
			Foreground(colorLabel).
			Width(12).
			Render(truncate(ma.machine, 12))
		msg := lipgloss.NewStyle().
			Foreground(colorLabel).
			Render(ma.alert.Message)
		detail := dimS.Render("  " + ma.alert.Value + "  → " + ma.alert.Action)
		rows = append(rows, sev+" "+machine+" "+msg+detail)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(content)
}

func (m Model) renderFooter(width int) string {
	okS := lipgloss.NewStyle().Foreground(colorOk).Render("██")
	warnS := lipgloss.NewStyle().Foreground(colorWarn).Render("██")
	highS := lipgloss.NewStyle().Foreground(colorHigh).Render("██")
	critS := lipgloss.NewStyle().Foreground(colorCrit).Render("██")
	tickS := lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render("│")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	legend := okS + dimS.Render(" ok ") +
		warnS + dimS.Render(" warm ") +
		highS + dimS.Render(" high ") +
		critS + dimS.Render(" crit ") +
		tickS + dimS.Render(" 1min")

	keys := dimS.Render("q") + lipgloss.NewStyle().Foreground(colorLabel).Render(":quit") +
		dimS.Render("  j/k") + lipgloss.NewStyle().Foreground(colorLabel).Render(":scroll") +
		dimS.Render("  p") + lipgloss.NewStyle().Foreground(colorLabel).Render(":pause")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + filler + keys)
}

func fmtThreshold(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-1] + "…"
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
