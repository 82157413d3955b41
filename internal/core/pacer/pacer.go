// Package pacer spaces out sequential calls to a remote provider.
package pacer

import (
	"context"
	"time"
)

// Pacer is consulted after call i of n in a batch.
type Pacer interface {
	Wait(ctx context.Context, i, n int) error
}

// Fixed sleeps Delay after every call except the last one of the batch.
type Fixed struct {
	Delay time.Duration
}

// New returns a fixed-delay pacer.
func New(delay time.Duration) Fixed {
	return Fixed{Delay: delay}
}

// Wait blocks for the configured delay unless i is the final index or ctx ends first.
func (p Fixed) Wait(ctx context.Context, i, n int) error {
	if i >= n-1 || p.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// None never waits. Used for single calls and in tests.
var None Pacer = Fixed{}

// Or returns p, or fallback when p is nil.
func Or(p Pacer, fallback Pacer) Pacer {
	if p == nil {
		return fallback
	}
	return p
}
