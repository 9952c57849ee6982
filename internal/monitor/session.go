// Package monitor drives telemetry collection for one viewing session.
//
// A Session owns the rolling history buffers it feeds; the renderer only
// reads snapshots. Trend statistics are served from those buffers, so the
// same contract works for every source implementation.
package monitor

import (
	"context"
	"time"

	"github.com/naveen/wattwise/internal/history"
	"github.com/naveen/wattwise/internal/logger"
	"github.com/naveen/wattwise/internal/source"
)

// Sample is the result of one successful poll.
type Sample struct {
	Timestamp time.Time
	Watts     float64

	// Amps is valid only when HasAmps is set: current is optional and
	// absent when disabled or unsupported by the source.
	Amps    float64
	HasAmps bool
}

// Config holds session construction options.
type Config struct {
	// Capacity bounds each history buffer. Zero means the default.
	Capacity int

	// ShowCurrent enables amperage collection on sources that support it.
	ShowCurrent bool
}

// Session couples a source with the history buffers it feeds.
type Session struct {
	src         source.Source
	power       *history.Buffer
	current     *history.Buffer
	showCurrent bool
}

// NewSession creates a session for src.
func NewSession(src source.Source, cfg Config) *Session {
	return &Session{
		src:         src,
		power:       history.NewBuffer(cfg.Capacity),
		current:     history.NewBuffer(cfg.Capacity),
		showCurrent: cfg.ShowCurrent && src.SupportsCurrent(),
	}
}

// SourceName returns the name of the underlying source.
func (s *Session) SourceName() string {
	return s.src.Name()
}

// ShowCurrent reports whether amperage is collected this session.
func (s *Session) ShowCurrent() bool {
	return s.showCurrent
}

// Validate checks the underlying source once at startup.
func (s *Session) Validate(ctx context.Context) error {
	return s.src.Validate(ctx)
}

// Seed loads a previously persisted snapshot into the buffers. Buffers
// that already hold readings are left untouched.
func (s *Session) Seed(power, current []history.Reading) {
	s.power.Seed(power)
	s.current.Seed(current)
}

// Poll fetches one reading and records it. A power fetch failure skips the
// tick and is returned for logging; a current fetch failure degrades to a
// power-only sample.
func (s *Session) Poll(ctx context.Context) (Sample, error) {
	watts, err := s.src.Power(ctx)
	if err != nil {
		return Sample{}, err
	}

	now := time.Now()
	s.power.Append(history.Reading{Timestamp: now, Value: watts})

	sample := Sample{Timestamp: now, Watts: watts}
	if s.showCurrent {
		amps, err := s.src.Current(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("current reading failed, continuing with power only")
		} else {
			s.current.Append(history.Reading{Timestamp: now, Value: amps})
			sample.Amps = amps
			sample.HasAmps = true
		}
	}
	return sample, nil
}

// PowerHistory returns the power buffer for read-only consumers.
func (s *Session) PowerHistory() *history.Buffer {
	return s.power
}

// CurrentHistory returns the amperage buffer for read-only consumers.
func (s *Session) CurrentHistory() *history.Buffer {
	return s.current
}

// PowerTrend returns aggregate power statistics over the trailing window.
func (s *Session) PowerTrend(minutes int) (history.Trend, bool) {
	return history.ComputeTrend(s.power, minutes)
}

// CurrentTrend returns aggregate amperage statistics over the trailing
// window.
func (s *Session) CurrentTrend(minutes int) (history.Trend, bool) {
	return history.ComputeTrend(s.current, minutes)
}
