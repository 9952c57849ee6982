package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/naveen/wattwise/internal/history"
)

// minElapsedHours floors the session span used for energy math so a
// freshly started session does not divide by zero.
const minElapsedHours = 0.001

// renderPowerStats renders the wattage statistics row.
func renderPowerStats(trend history.Trend, th Thresholds) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Power  "))
	b.WriteString(labelStyle.Render("Now: "))
	b.WriteString(th.StyleFor(trend.Current).Render(fmt.Sprintf("%.1fW", trend.Current)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Min: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1fW", trend.Min)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Max: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1fW", trend.Max)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Avg: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1fW", trend.Avg)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("(%d samples / %dm)", trend.Samples, trend.PeriodMinutes)))
	return b.String()
}

// renderCurrentStats renders the amperage statistics row.
func renderCurrentStats(trend history.Trend) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Amps   "))
	b.WriteString(labelStyle.Render("Now: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2fA", trend.Current)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Min: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2fA", trend.Min)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Max: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2fA", trend.Max)))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Avg: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2fA", trend.Avg)))
	return b.String()
}

// renderEnergy renders the energy estimate. Sessions shorter than an hour
// show only the projected hourly rate; longer sessions show actual usage
// alongside the rate.
func renderEnergy(trend history.Trend, span time.Duration) string {
	hours := span.Hours()
	if hours < minElapsedHours {
		hours = minElapsedHours
	}
	hourly := trend.Avg / 1000

	var b strings.Builder
	b.WriteString(labelStyle.Render("Energy "))
	if span < time.Hour {
		b.WriteString(labelStyle.Render("Used (est.): "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f kWh/hour", hourly)))
	} else {
		actual := trend.Avg * hours / 1000
		b.WriteString(labelStyle.Render("Used: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f kWh", actual)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Rate: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f kWh/hour", hourly)))
	}
	return b.String()
}

// renderSourceLine renders the source name and last reading time.
func renderSourceLine(name string, ts time.Time) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Source: "))
	b.WriteString(valueStyle.Render(name))
	if !ts.IsZero() {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Updated: "))
		b.WriteString(valueStyle.Render(ts.Format("15:04:05")))
	}
	return b.String()
}
