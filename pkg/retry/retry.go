// Package retry waits for a backend to become ready, backing off
// exponentially between attempts.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	defaultDelay    = 100 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

// A Policy bounds how long [Do] keeps trying. Zero values mean a single
// attempt, a 100ms first delay capped at 5s and every error retryable.
type Policy struct {
	Attempts  int
	Delay     time.Duration
	MaxDelay  time.Duration
	Retryable func(error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

func (p Policy) withDefaults() Policy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Delay <= 0 {
		p.Delay = defaultDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	if p.Retryable == nil {
		p.Retryable = func(error) bool { return true }
	}
	return p
}

// Backoff is the wait after failed attempt n, counting from 1: Delay
// doubled per attempt and capped at MaxDelay, plus up to half of it as
// jitter.
func (p Policy) Backoff(n int) time.Duration {
	p = p.withDefaults()

	base := p.MaxDelay
	if shift := n - 1; shift >= 0 && shift < 32 {
		if d := p.Delay << shift; d > 0 && d < p.MaxDelay {
			base = d
		}
	}
	return base + time.Duration(rand.Int64N(int64(base/2)+1))
}

// Do calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts or ctx is done. The last error of fn is returned.
func Do(ctx context.Context, p Policy, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = p.withDefaults()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= p.Attempts || !p.Retryable(err) {
			return err
		}

		wait := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
