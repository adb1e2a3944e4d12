// Package poll turns a one-shot condition check into a bounded, periodic,
// cancellable sequence of outcomes.
package poll

import (
	"context"
	"time"

	"github.com/justice-digital/dps-smoketest/engine/core"
)

// CheckFunc evaluates a condition once and reports the latest state. It must
// not panic and must map its own failures to a FAIL outcome.
type CheckFunc func(ctx context.Context) core.Outcome

// Sequence re-evaluates check at fixed intervals until an outcome completes
// the stage, the maximum duration elapses or the context is cancelled. Each
// evaluated outcome is emitted on the returned channel; the channel is closed
// when the sequence ends. If the budget runs out without the condition ever
// completing, the channel just closes: recognizing that as a failure is the
// caller's job.
//
// Evaluations never overlap; the first one happens after the first interval
// tick. At most maxDuration/interval outcomes are emitted.
func Sequence(ctx context.Context, interval, maxDuration time.Duration, check CheckFunc) <-chan core.Outcome {
	out := make(chan core.Outcome)
	go func() {
		defer close(out)
		if interval <= 0 || maxDuration <= 0 {
			return
		}
		maxAttempts := int(maxDuration / interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for attempt := 0; attempt < maxAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			outcome := check(ctx)
			select {
			case <-ctx.Done():
				return
			case out <- outcome:
			}
			if outcome.StageComplete() {
				return
			}
		}
	}()
	return out
}
