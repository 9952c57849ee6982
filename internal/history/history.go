// Package history provides rolling storage and trend analysis for
// timestamped telemetry readings.
package history

import (
	"sync"
	"time"
)

// DefaultCapacity is the default number of readings a Buffer retains.
const DefaultCapacity = 100

// Reading is a single timestamped scalar measurement. The unit depends on
// the series the reading belongs to (watts for power, amperes for current).
type Reading struct {
	// Timestamp is when this reading was taken.
	Timestamp time.Time

	// Value is the measured quantity.
	Value float64
}

// Buffer stores a bounded rolling window of readings for one metric.
// The oldest reading is evicted first once capacity is reached.
//
// A Buffer is safe for concurrent use: the polling loop appends while the
// renderer reads snapshots from bubbletea command goroutines.
type Buffer struct {
	mu       sync.Mutex
	readings []Reading
	capacity int
}

// NewBuffer creates an empty Buffer with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		readings: make([]Reading, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a reading, evicting the oldest one when the buffer is full.
// It always succeeds.
func (b *Buffer) Append(r Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.readings) == b.capacity {
		copy(b.readings, b.readings[1:])
		b.readings = b.readings[:len(b.readings)-1]
	}
	b.readings = append(b.readings, r)
}

// Seed replaces the buffer contents with a previously persisted series.
// It is a no-op unless the buffer is empty. Only the most recent entries
// are kept when the snapshot exceeds capacity.
func (b *Buffer) Seed(readings []Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.readings) > 0 {
		return
	}
	if len(readings) > b.capacity {
		readings = readings[len(readings)-b.capacity:]
	}
	b.readings = append(b.readings[:0], readings...)
}

// Snapshot returns a copy of all readings in chronological order.
func (b *Buffer) Snapshot() []Reading {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Reading, len(b.readings))
	copy(out, b.readings)
	return out
}

// Recent returns the last n readings in chronological order, or fewer when
// the buffer holds fewer.
func (b *Buffer) Recent(n int) []Reading {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 {
		return nil
	}
	if n > len(b.readings) {
		n = len(b.readings)
	}
	out := make([]Reading, n)
	copy(out, b.readings[len(b.readings)-n:])
	return out
}

// Window returns all readings with a timestamp at or after since,
// preserving insertion order.
func (b *Buffer) Window(since time.Time) []Reading {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Reading, 0, len(b.readings))
	for _, r := range b.readings {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of stored readings.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.readings)
}

// Latest returns the most recent reading, if any.
func (b *Buffer) Latest() (Reading, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.readings) == 0 {
		return Reading{}, false
	}
	return b.readings[len(b.readings)-1], true
}

// Span returns the elapsed time between the oldest and newest readings.
// Buffers with fewer than two readings have a zero span.
func (b *Buffer) Span() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.readings) < 2 {
		return 0
	}
	return b.readings[len(b.readings)-1].Timestamp.Sub(b.readings[0].Timestamp)
}

// Clear removes all readings.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readings = b.readings[:0]
}
