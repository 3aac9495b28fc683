// Package telemetry supplies machine readings to the dashboards: an HTTP
// poller for a live backend, a fleet simulator for running without one,
// and a fallback chain combining the two.
package telemetry

import (
	"context"
	"sync"

	"github.com/shved/plantwatch/internal/equipment"
)

// Source produces one fleet snapshot per poll.
type Source interface {
	// Poll returns the current reading for every machine.
	Poll(ctx context.Context) ([]equipment.Reading, error)
	// Name identifies the source for status display.
	Name() string
}

// Fallback polls the primary source and falls back to the backup when the
// primary fails, so the dashboard keeps rendering through backend outages.
type Fallback struct {
	Primary Source
	Backup  Source

	mu       sync.Mutex
	degraded bool
	lastErr  error
}

// NewFallback wraps a primary source with a backup.
func NewFallback(primary, backup Source) *Fallback {
	return &Fallback{Primary: primary, Backup: backup}
}

// Poll tries the primary source first. On failure it records the error,
// flips into degraded mode and serves the backup instead. A successful
// primary poll clears degraded mode.
func (f *Fallback) Poll(ctx context.Context) ([]equipment.Reading, error) {
	readings, err := f.Primary.Poll(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		f.degraded = false
		f.lastErr = nil
		return readings, nil
	}

	f.degraded = true
	f.lastErr = err
	return f.Backup.Poll(ctx)
}

// Name reports the currently serving source.
func (f *Fallback) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.degraded {
		return f.Backup.Name()
	}
	return f.Primary.Name()
}

// Degraded reports whether the last poll was served by the backup, and
// the primary error that caused the switch.
func (f *Fallback) Degraded() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded, f.lastErr
}
