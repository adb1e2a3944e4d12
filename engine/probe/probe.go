// Package probe provides the single-shot condition check that every
// collaborator probe is built from: one outbound call, mapped to an outcome,
// never an error and never a panic. Retries are the polling primitive's job.
package probe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/justice-digital/dps-smoketest/engine/core"
)

// CheckFunc is a single-shot condition check. It always returns a well formed
// outcome, whatever the transport did.
type CheckFunc func(ctx context.Context) core.Outcome

// NotFoundPolicy states what a 404 from the collaborator means for this
// probe. The meaning depends on which call returned not-found, so every probe
// declares it explicitly; there is no default.
type NotFoundPolicy string

const (
	// NotFoundRetry means the entity is expected to appear eventually: a 404
	// maps to INCOMPLETE and the polling layer will try again.
	NotFoundRetry NotFoundPolicy = "retry"
	// NotFoundFatal means absence itself is the failure: a 404 maps to FAIL
	// and the test ends.
	NotFoundFatal NotFoundPolicy = "fatal"
)

// Definition configures one probe: the outbound call, the mapping of a
// successful response to an outcome, and the not-found policy.
type Definition struct {
	// Name appears in failure descriptions, e.g. "Check test results for A7742DY".
	Name string
	// Call performs exactly one outbound request.
	Call func(ctx context.Context) (*resty.Response, error)
	// OnSuccess maps a 2xx response to an outcome.
	OnSuccess func(resp *resty.Response) core.Outcome
	// NotFound is the explicit 404 policy.
	NotFound NotFoundPolicy
	// NotFoundDescription narrates the 404 outcome for either policy.
	NotFoundDescription string
}

// Check runs the probe once. Transport errors, unexpected statuses and body
// decode failures all map to FAIL with the underlying message embedded.
func (d Definition) Check(ctx context.Context) core.Outcome {
	resp, err := d.Call(ctx)
	if err != nil {
		return core.Fail(fmt.Sprintf("%s failed due to %s", d.Name, err.Error()))
	}
	switch {
	case resp.IsSuccess():
		return d.OnSuccess(resp)
	case resp.StatusCode() == http.StatusNotFound:
		if d.NotFound == NotFoundRetry {
			return core.Incomplete(d.NotFoundDescription)
		}
		return core.Fail(d.NotFoundDescription)
	default:
		return core.Fail(fmt.Sprintf("%s failed due to %s", d.Name, resp.Status()))
	}
}
