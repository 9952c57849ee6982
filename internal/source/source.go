// Package source provides interchangeable providers of instantaneous
// power and current telemetry.
package source

import (
	"context"
	"errors"
)

// Telemetry failure categories. Both are handled identically at the polling
// boundary (skip the tick); they are distinguished for logging only.
var (
	// ErrUnavailable indicates the provider could not be reached or
	// refused the request.
	ErrUnavailable = errors.New("source unavailable")

	// ErrInvalidReading indicates the provider answered with a malformed
	// or non-numeric payload.
	ErrInvalidReading = errors.New("invalid reading")
)

// Source produces power readings on demand.
type Source interface {
	// Name returns a human-readable name for this provider.
	Name() string

	// SupportsCurrent reports whether Current readings are available.
	// Callers branch on this flag instead of probing at runtime.
	SupportsCurrent() bool

	// Validate checks connectivity and configuration. It is called once
	// at startup; failures there are fatal.
	Validate(ctx context.Context) error

	// Power returns the instantaneous power draw in watts.
	Power(ctx context.Context) (float64, error)

	// Current returns the instantaneous current in amperes. Sources that
	// do not support current readings return ErrUnavailable.
	Current(ctx context.Context) (float64, error)
}
