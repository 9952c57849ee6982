package source

import (
	"context"
	"math/rand"
	"sync"
)

// Mock is a synthetic source that produces a bounded random walk, matching
// the rough shape of a workstation plugged into a metering smart plug.
// It needs no network and always validates.
type Mock struct {
	mu        sync.Mutex
	rng       *rand.Rand
	lastPower float64
	lastAmps  float64
}

// NewMock creates a mock source seeded for non-repeating sessions.
func NewMock(seed int64) *Mock {
	return &Mock{
		rng:       rand.New(rand.NewSource(seed)),
		lastPower: 200.0,
		lastAmps:  2.0,
	}
}

// Name implements Source.
func (m *Mock) Name() string {
	return "Mock"
}

// SupportsCurrent implements Source.
func (m *Mock) SupportsCurrent() bool {
	return true
}

// Validate implements Source. Mock data is always available.
func (m *Mock) Validate(ctx context.Context) error {
	return nil
}

// Power implements Source. Values wander between 50 and 400 watts.
func (m *Mock) Power(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastPower = clamp(m.lastPower+m.rng.Float64()*40-20, 50, 400)
	return m.lastPower, nil
}

// Current implements Source. Values wander between 0.5 and 4 amperes.
func (m *Mock) Current(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastAmps = clamp(m.lastAmps+m.rng.Float64()*0.4-0.2, 0.5, 4.0)
	return m.lastAmps, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
