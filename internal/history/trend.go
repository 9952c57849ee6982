package history

import "time"

// Trend summarizes readings within a trailing time window.
type Trend struct {
	// Current is the most recent value inside the window.
	Current float64

	// Min, Max, and Avg are computed over the windowed values.
	Min float64
	Max float64
	Avg float64

	// Samples is how many readings fell inside the window.
	Samples int

	// PeriodMinutes is the requested window length.
	PeriodMinutes int
}

// ComputeTrend analyzes the trailing window of minutes ending now.
// It reports ok=false when fewer than two readings fall inside the window,
// which is the normal state during warm-up rather than an error.
func ComputeTrend(b *Buffer, minutes int) (Trend, bool) {
	return ComputeTrendAt(b, minutes, time.Now())
}

// ComputeTrendAt is ComputeTrend with an explicit reference time. It does
// not mutate the buffer and tolerates out-of-order timestamps: readings are
// filtered by timestamp alone, not assumed monotonic.
func ComputeTrendAt(b *Buffer, minutes int, now time.Time) (Trend, bool) {
	window := b.Window(now.Add(-time.Duration(minutes) * time.Minute))
	if len(window) < 2 {
		return Trend{}, false
	}

	t := Trend{
		Current:       window[len(window)-1].Value,
		Min:           window[0].Value,
		Max:           window[0].Value,
		Samples:       len(window),
		PeriodMinutes: minutes,
	}

	var sum float64
	for _, r := range window {
		v := r.Value
		sum += v
		if v < t.Min {
			t.Min = v
		}
		if v > t.Max {
			t.Max = v
		}
	}
	t.Avg = sum / float64(len(window))
	return t, true
}
