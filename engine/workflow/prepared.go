package workflow

import (
	"context"

	"github.com/justice-digital/dps-smoketest/engine/core"
)

// PrepareFunc gathers the inputs the rest of a workflow needs from a
// collaborator. The outcome narrates the gathering; the value parameterizes
// the remaining stages. A terminal outcome means the workflow is just that
// outcome.
type PrepareFunc[T any] func(ctx context.Context) (core.Outcome, T)

// PreparedDefinition is a workflow whose stage list depends on a value
// resolved at the start of the run, e.g. booking details fetched from the
// prison record before the probation stages can be built.
type PreparedDefinition[T any] struct {
	Name    string
	Prepare PrepareFunc[T]
	// Build constructs the remaining stages from the prepared value.
	Build func(inputs T) []Stage
	// Cleanup runs once after the stream ends, best effort.
	Cleanup func(ctx context.Context, inputs T)
}

// Run resolves the prepared value, emits its outcome, then behaves like
// Definition.Run over the built stages.
func (d *PreparedDefinition[T]) Run(ctx context.Context) <-chan core.Outcome {
	out := make(chan core.Outcome)
	go func() {
		defer close(out)
		outcome, inputs := d.Prepare(ctx)
		if d.Cleanup != nil {
			defer func() {
				cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
				defer cancel()
				d.Cleanup(cleanupCtx, inputs)
			}()
		}
		select {
		case <-ctx.Done():
			return
		case out <- outcome:
		}
		if outcome.HasResult() {
			return
		}
		runStages(ctx, d.Name, d.Build(inputs), out)
	}()
	return out
}
