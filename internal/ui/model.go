// Package ui provides the terminal dashboard for live power readings.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveen/wattwise/internal/monitor"
)

const (
	// DefaultChartWidth is the default chart area width in characters.
	DefaultChartWidth = 60
	// DefaultInterval is the default polling interval.
	DefaultInterval = 1 * time.Second
	// DefaultTrendMinutes is the default trailing window for statistics.
	DefaultTrendMinutes = 5
	// minChartInterval floors the chart refresh cadence.
	minChartInterval = 5 * time.Second
	// fetchTimeout bounds a single source round trip.
	fetchTimeout = 5 * time.Second
)

// pollTickMsg is sent on the polling cadence to trigger a fetch.
type pollTickMsg time.Time

// chartTickMsg is sent on the chart cadence to rebuild chart strings.
type chartTickMsg time.Time

// readingMsg carries a completed fetch back to the model.
type readingMsg struct {
	sample monitor.Sample
	err    error
}

// Config holds configuration options for the UI.
type Config struct {
	Session      *monitor.Session
	Interval     time.Duration
	TrendMinutes int
	Thresholds   Thresholds
	MaxScale     float64
	ChartWidth   int
}

// DefaultConfig returns a Config with default values for session.
func DefaultConfig(session *monitor.Session) Config {
	return Config{
		Session:      session,
		Interval:     DefaultInterval,
		TrendMinutes: DefaultTrendMinutes,
		Thresholds:   Thresholds{Warning: 300, Critical: 1200},
		MaxScale:     1800,
		ChartWidth:   DefaultChartWidth,
	}
}

// Model represents the UI state.
type Model struct {
	session       *monitor.Session
	spinner       spinner.Model
	interval      time.Duration
	chartInterval time.Duration
	trendMinutes  int
	thresholds    Thresholds
	maxScale      float64
	width         int
	height        int
	chartWidth    int
	lastSample    monitor.Sample
	haveSample    bool
	lastError     error
	powerChart    string
	currentChart  string
	lineChart     string
	inFlight      bool
	quitting      bool
	ready         bool
}

// NewModel creates a new UI model with the given configuration.
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	chartInterval := 2 * interval
	if chartInterval < minChartInterval {
		chartInterval = minChartInterval
	}
	trendMinutes := cfg.TrendMinutes
	if trendMinutes <= 0 {
		trendMinutes = DefaultTrendMinutes
	}
	chartWidth := cfg.ChartWidth
	if chartWidth <= 0 {
		chartWidth = DefaultChartWidth
	}

	return Model{
		session:       cfg.Session,
		spinner:       s,
		interval:      interval,
		chartInterval: chartInterval,
		trendMinutes:  trendMinutes,
		thresholds:    cfg.Thresholds,
		maxScale:      cfg.MaxScale,
		chartWidth:    chartWidth,
	}
}

// Init starts the spinner and both tick timers. The first poll tick is
// delivered immediately so the dashboard is not blank for a full
// interval; in-flight bookkeeping happens in Update.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return pollTickMsg(time.Now()) },
		m.chartTickCmd(),
	)
}

// pollTickCmd schedules the next poll tick.
func (m Model) pollTickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// chartTickCmd schedules the next chart rebuild.
func (m Model) chartTickCmd() tea.Cmd {
	return tea.Tick(m.chartInterval, func(t time.Time) tea.Msg {
		return chartTickMsg(t)
	})
}

// pollCmd fetches one reading off the UI goroutine.
func (m Model) pollCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		sample, err := session.Poll(ctx)
		return readingMsg{sample: sample, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.session.PowerHistory().Clear()
			m.session.CurrentHistory().Clear()
			m.powerChart = ""
			m.currentChart = ""
			m.lineChart = ""
			m.haveSample = false
			m.lastError = nil
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 24; w < m.chartWidth && w > 10 {
			m.chartWidth = w
		}
		m.ready = true
		return m, nil

	case pollTickMsg:
		cmds := []tea.Cmd{m.pollTickCmd()}
		// Only one fetch in flight at a time; a slow source skips ticks
		// instead of piling up requests.
		if !m.inFlight {
			m.inFlight = true
			cmds = append(cmds, m.pollCmd())
		}
		return m, tea.Batch(cmds...)

	case readingMsg:
		m.inFlight = false
		m.lastError = msg.err
		if msg.err == nil {
			m.lastSample = msg.sample
			m.haveSample = true
		}
		return m, nil

	case chartTickMsg:
		m.rebuildCharts()
		return m, m.chartTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// rebuildCharts recomputes the cached chart strings from the buffers.
func (m *Model) rebuildCharts() {
	power := m.session.PowerHistory().Snapshot()
	m.powerChart = renderPowerBars(power, m.maxScale, m.chartWidth, m.thresholds)
	m.lineChart = renderLineChart(power, m.chartWidth)
	if m.session.ShowCurrent() {
		m.currentChart = renderCurrentBars(m.session.CurrentHistory().Snapshot(), m.chartWidth)
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return fmt.Sprintf("%s Loading...\n", m.spinner.View())
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("⚡ WattWise"))
	b.WriteString("\n\n")

	b.WriteString(m.renderHeadline())
	b.WriteString("\n\n")

	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	b.WriteString(chartAxisStyle.Render("Power draw"))
	b.WriteString("\n")
	b.WriteString(m.chartOrPlaceholder(m.powerChart))
	b.WriteString("\n\n")

	if m.session.ShowCurrent() {
		b.WriteString(chartAxisStyle.Render("Current draw"))
		b.WriteString("\n")
		b.WriteString(m.chartOrPlaceholder(m.currentChart))
		b.WriteString("\n\n")
	}

	b.WriteString(chartAxisStyle.Render("Power trend"))
	b.WriteString("\n")
	b.WriteString(m.chartOrPlaceholder(m.lineChart))
	b.WriteString("\n")

	if m.lastError != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("⚠ Error: %v", m.lastError)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Press 'q' to quit • 'c' to clear history"))

	return boxStyle.Render(b.String())
}

// renderHeadline renders the big current-wattage line.
func (m Model) renderHeadline() string {
	if !m.haveSample {
		return fmt.Sprintf("%s Waiting for first reading...", m.spinner.View())
	}

	var b strings.Builder
	watts := m.lastSample.Watts
	b.WriteString(m.thresholds.StyleFor(watts).Render(fmt.Sprintf("%.1f W", watts)))
	if m.lastSample.HasAmps {
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f A", m.lastSample.Amps)))
	}
	return b.String()
}

// renderStats renders the statistics section from the session trends.
func (m Model) renderStats() string {
	trend, ok := m.session.PowerTrend(m.trendMinutes)
	if !ok {
		return chartAxisStyle.Render("Gathering statistics...")
	}

	var lines []string
	lines = append(lines, renderPowerStats(trend, m.thresholds))

	if m.session.ShowCurrent() {
		if ampTrend, ok := m.session.CurrentTrend(m.trendMinutes); ok {
			lines = append(lines, renderCurrentStats(ampTrend))
		}
	}

	lines = append(lines, renderEnergy(trend, m.session.PowerHistory().Span()))
	lines = append(lines, renderSourceLine(m.session.SourceName(), m.lastSample.Timestamp))

	return strings.Join(lines, "\n")
}

// chartOrPlaceholder substitutes a waiting message for empty charts.
func (m Model) chartOrPlaceholder(chart string) string {
	if chart == "" {
		return chartAxisStyle.Render("Waiting for data...")
	}
	return chart
}
