// Package workflow composes ordered test stages into one continuous outcome
// stream with short-circuit semantics: the first SUCCESS or FAIL outcome
// ends the stream and no later stage runs.
package workflow

import (
	"context"
	"time"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/poll"
	"github.com/justice-digital/dps-smoketest/engine/probe"
	"github.com/justice-digital/dps-smoketest/pkg/logger"
)

const cleanupTimeout = 30 * time.Second

// Stage produces a finite stream of outcomes. A stage is either one probe
// invocation or one bounded polling sequence.
type Stage func(ctx context.Context) <-chan core.Outcome

// Single wraps a one-shot check into a stage emitting exactly one outcome.
func Single(check probe.CheckFunc) Stage {
	return func(ctx context.Context) <-chan core.Outcome {
		out := make(chan core.Outcome, 1)
		defer close(out)
		out <- check(ctx)
		return out
	}
}

// Announce emits one INCOMPLETE outcome narrating what happens next.
func Announce(description string) Stage {
	return func(context.Context) <-chan core.Outcome {
		out := make(chan core.Outcome, 1)
		out <- core.Incomplete(description)
		close(out)
		return out
	}
}

// Polling wraps a check into a bounded polling stage.
func Polling(interval, maxDuration time.Duration, check probe.CheckFunc) Stage {
	return func(ctx context.Context) <-chan core.Outcome {
		return poll.Sequence(ctx, interval, maxDuration, poll.CheckFunc(check))
	}
}

// Definition is an ordered list of stages forming one smoke test run.
type Definition struct {
	// Name identifies the workflow family in logs.
	Name string
	// Stages run strictly in order; each is fully drained before the next
	// starts.
	Stages []Stage
	// Cleanup, when set, runs once after the stream ends. It is best effort:
	// it is not part of the stream and its failure is only logged.
	Cleanup func(ctx context.Context)
}

// Run executes the stages and returns the composed outcome stream. The
// stream ends at the first outcome with a result, when the last stage
// drains, or when ctx is cancelled.
func (d *Definition) Run(ctx context.Context) <-chan core.Outcome {
	out := make(chan core.Outcome)
	go func() {
		defer close(out)
		defer d.runCleanup(ctx)
		runStages(ctx, d.Name, d.Stages, out)
	}()
	return out
}

func (d *Definition) runCleanup(ctx context.Context) {
	if d.Cleanup == nil {
		return
	}
	// Cleanup still runs when the client disconnects, but never for long.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	d.Cleanup(cleanupCtx)
}

// runStages drains each stage into out in order, stopping at the first
// outcome with a result. It reports whether a result was reached.
func runStages(ctx context.Context, name string, stages []Stage, out chan<- core.Outcome) bool {
	stageCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for _, stage := range stages {
		for outcome := range stage(stageCtx) {
			select {
			case <-ctx.Done():
				return false
			case out <- outcome:
			}
			if outcome.HasResult() {
				return true
			}
		}
		if ctx.Err() != nil {
			return false
		}
	}
	if ctx.Err() == nil {
		logger.FromContext(ctx).Warn("smoke test ended without a result", "workflow", name)
	}
	return false
}
