package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveen/wattwise/internal/history"
)

const (
	// chartHistoryLimit caps how many trailing readings feed a chart.
	chartHistoryLimit = 30
	// barSampleLimit caps how many bars are drawn.
	barSampleLimit = 10
	// lineChartHeight is the number of plot rows in the line chart.
	lineChartHeight = 7
)

// sampleIndices picks up to limit evenly strided indices out of count,
// anchored on the newest entry, returned in chronological order.
func sampleIndices(count, limit int) []int {
	if count <= limit {
		idxs := make([]int, count)
		for i := range idxs {
			idxs[i] = i
		}
		return idxs
	}

	stride := count / limit
	idxs := make([]int, 0, limit)
	for i := 0; i < limit; i++ {
		idxs = append(idxs, count-1-i*stride)
	}
	sort.Ints(idxs)
	return idxs
}

// tail returns the trailing chartHistoryLimit readings.
func tail(readings []history.Reading) []history.Reading {
	if len(readings) > chartHistoryLimit {
		return readings[len(readings)-chartHistoryLimit:]
	}
	return readings
}

// renderBars draws one labeled horizontal bar per sampled reading. Bar
// length is value/scale of the chart width, with a 1-cell floor for
// nonzero values so small loads stay visible.
func renderBars(readings []history.Reading, scale float64, width int, format string, styleFor func(float64) lipgloss.Style) string {
	recent := tail(readings)
	if len(recent) == 0 {
		return chartAxisStyle.Render("Waiting for data...")
	}
	if scale <= 0 {
		scale = 1
	}

	var lines []string
	for _, i := range sampleIndices(len(recent), barSampleLimit) {
		r := recent[i]
		length := 0
		if r.Value > 0 {
			length = int(r.Value / scale * float64(width))
			if length < 1 {
				length = 1
			}
			if length > width {
				length = width
			}
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			chartAxisStyle.Render(r.Timestamp.Format("15:04:05")),
			styleFor(r.Value).Render(strings.Repeat("█", length)),
			valueStyle.Render(fmt.Sprintf(format, r.Value)),
		))
	}
	return strings.Join(lines, "\n")
}

// renderPowerBars draws the wattage bar chart against the fixed full
// scale, colored by threshold band.
func renderPowerBars(readings []history.Reading, maxScale float64, width int, th Thresholds) string {
	return renderBars(readings, maxScale, width, "%.1f W", func(v float64) lipgloss.Style {
		return th.StyleFor(v)
	})
}

// renderCurrentBars draws the amperage bar chart scaled to the local
// maximum of the sampled window.
func renderCurrentBars(readings []history.Reading, width int) string {
	recent := tail(readings)
	var localMax float64
	for _, i := range sampleIndices(len(recent), barSampleLimit) {
		if recent[i].Value > localMax {
			localMax = recent[i].Value
		}
	}
	return renderBars(readings, localMax, width, "%.2f A", func(float64) lipgloss.Style {
		return chartBarStyle
	})
}

// renderLineChart plots the trailing readings on a fixed-height grid with
// value labels on the left and start/mid/end timestamps under the axis.
func renderLineChart(readings []history.Reading, width int) string {
	recent := tail(readings)
	if len(recent) < 2 {
		return chartAxisStyle.Render("Waiting for data...")
	}

	lo, hi := recent[0].Value, recent[0].Value
	for _, r := range recent[1:] {
		if r.Value < lo {
			lo = r.Value
		}
		if r.Value > hi {
			hi = r.Value
		}
	}
	// Pad by 10% of the data range, but never less than a full unit, so
	// flat series still get a readable scale. Watts never go negative.
	pad := (hi - lo) * 0.1
	if pad < 1 {
		pad = 1
	}
	lo -= pad
	hi += pad
	if lo < 0 {
		lo = 0
	}

	grid := make([][]rune, lineChartHeight)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", width))
	}
	n := len(recent)
	for i, r := range recent {
		col := 0
		if n > 1 {
			col = i * (width - 1) / (n - 1)
		}
		level := int(math.Round((r.Value - lo) / (hi - lo) * float64(lineChartHeight-1)))
		grid[lineChartHeight-1-level][col] = '●'
	}

	var b strings.Builder
	for row := 0; row < lineChartHeight; row++ {
		rowVal := hi - float64(row)/float64(lineChartHeight-1)*(hi-lo)
		b.WriteString(chartAxisStyle.Render(fmt.Sprintf("%7.1f │", rowVal)))
		b.WriteString(chartBarStyle.Render(string(grid[row])))
		b.WriteString("\n")
	}
	b.WriteString(chartAxisStyle.Render(strings.Repeat(" ", 8) + "└" + strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(chartAxisStyle.Render(strings.Repeat(" ", 9) + timeAxis(recent, width)))
	return b.String()
}

// timeAxis lays the start, middle, and end timestamps along a width-wide
// row.
func timeAxis(readings []history.Reading, width int) string {
	start := readings[0].Timestamp.Format("15:04:05")
	mid := readings[len(readings)/2].Timestamp.Format("15:04:05")
	end := readings[len(readings)-1].Timestamp.Format("15:04:05")

	row := []rune(strings.Repeat(" ", width))
	place := func(s string, at int) {
		for i, c := range s {
			if at+i >= 0 && at+i < width {
				row[at+i] = c
			}
		}
	}
	place(start, 0)
	place(mid, (width-len(mid))/2)
	place(end, width-len(end))
	return string(row)
}
