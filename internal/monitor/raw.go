package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/naveen/wattwise/internal/logger"
)

// RunRaw polls at the given interval and writes one bare watts value per
// successful tick, flushed immediately for scripting consumers. Fetch
// failures are logged and skipped; the loop ends only on ctx cancellation.
func (s *Session) RunRaw(ctx context.Context, w io.Writer, interval time.Duration) error {
	out := bufio.NewWriter(w)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Emit the first value without waiting a full interval.
	s.rawTick(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.rawTick(ctx, out)
		}
	}
}

func (s *Session) rawTick(ctx context.Context, out *bufio.Writer) {
	sample, err := s.Poll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("poll failed, skipping tick")
		return
	}
	fmt.Fprintf(out, "%.0f\n", sample.Watts)
	out.Flush()
}

// RawOnce performs a single fetch and writes the bare watts value. Unlike
// watch mode, a failure here is fatal to the caller: nothing is written
// and the error is returned.
func (s *Session) RawOnce(ctx context.Context, w io.Writer) error {
	sample, err := s.Poll(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%.0f\n", sample.Watts)
	return err
}
