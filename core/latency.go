package core

import (
	"context"
	"time"
)

// Latency delays store operations to mimic a remote backend.
// A nil *Latency never waits.
type Latency struct {
	enabled bool
	scale   float64
}

func NewLatency(conf *Config) *Latency {
	scale := conf.Latency.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Latency{enabled: conf.Latency.Enabled, scale: scale}
}

// Wait blocks for the scaled duration `d` or until ctx is done, in which case ctx.Err() is returned.
func (l *Latency) Wait(ctx context.Context, d time.Duration) error {
	if l == nil || !l.enabled || d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(float64(d) * l.scale))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
