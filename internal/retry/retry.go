// Package retry wraps fallible collaborator calls with bounded, linearly
// increasing backoff. Harvest collaborators fail transiently all the time
// (navigation timeouts, detached page contexts), so callers treat an
// exhausted retry as a per-item skip rather than a pipeline failure.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls how many attempts are made and how long to wait between
// them. The wait before attempt i+1 is BaseDelay + i*Step.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Step        time.Duration
}

// DefaultPolicy mirrors the harvester's historical schedule: three attempts
// with 3s, 5s, 7s pauses.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 3 * time.Second, Step: 2 * time.Second}
}

// Do runs fn until it succeeds or attempts are exhausted. The label names the
// operation in the returned error. Waits are context-aware and must never be
// performed while holding the index mutation lock.
func (p Policy) Do(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if i == attempts-1 {
			break
		}

		wait := p.BaseDelay + time.Duration(i)*p.Step
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", label, attempts, lastErr)
}
