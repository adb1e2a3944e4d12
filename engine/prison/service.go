// Package prison wraps the prison record API (prison-api). Its smoke test
// endpoints mutate fixture offenders: change imprisonment status, release,
// recall, update name details.
package prison

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/probe"
)

// Service issues single-shot calls against prison-api.
type Service struct {
	client *resty.Client
}

func NewService(client *resty.Client) *Service {
	return &Service{client: client}
}

// TestInputs carries the identifiers a prison-to-probation update run needs,
// resolved from the offender's current booking.
type TestInputs struct {
	CRN           string
	NomsNumber    string
	BookingNumber string
	PrisonCode    string
}

type offenderDetails struct {
	BookingNo string `json:"bookingNo"`
	AgencyID  string `json:"agencyId"`
}

// GetTestInputs fetches the offender's booking number and prison code. Any
// failure, including 404, means the test cannot even start: the outcome is
// FAIL and the inputs carry placeholders.
func (s *Service) GetTestInputs(ctx context.Context, nomsNumber, crn string) (core.Outcome, TestInputs) {
	failed := TestInputs{CRN: crn, NomsNumber: nomsNumber, BookingNumber: "NOT FOUND", PrisonCode: "NOT FOUND"}
	var details offenderDetails
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&details).
		SetPathParam("nomsNumber", nomsNumber).
		Get("/api/smoketest/offenders/{nomsNumber}/imprisonment-status")
	if err != nil {
		return core.Fail(fmt.Sprintf("Unable to gather the test inputs due to %s", err.Error())), failed
	}
	if !resp.IsSuccess() {
		return core.Fail(fmt.Sprintf("Unable to gather the test inputs due to %s", resp.Status())), failed
	}
	inputs := TestInputs{
		CRN:           crn,
		NomsNumber:    nomsNumber,
		BookingNumber: details.BookingNo,
		PrisonCode:    details.AgencyID,
	}
	return core.Incomplete(fmt.Sprintf("Retrieved test inputs for %s with booking %s in prison %s",
		nomsNumber, inputs.BookingNumber, inputs.PrisonCode)), inputs
}

// TriggerImprisonmentStatusChange starts a prison-to-probation update test by
// re-sentencing the offender. A missing offender is fatal: there is nothing
// to retry against.
func (s *Service) TriggerImprisonmentStatusChange(nomsNumber string) probe.CheckFunc {
	return s.trigger(nomsNumber, "/api/smoketest/offenders/{nomsNumber}/imprisonment-status")
}

// ReleasePrisoner starts a prison-offender-events test by releasing the
// offender.
func (s *Service) ReleasePrisoner(nomsNumber string) probe.CheckFunc {
	return s.trigger(nomsNumber, "/api/smoketest/offenders/{nomsNumber}/release")
}

// RecallPrisoner recalls a previously released offender, producing the
// matching domain event.
func (s *Service) RecallPrisoner(nomsNumber string) probe.CheckFunc {
	return s.trigger(nomsNumber, "/api/smoketest/offenders/{nomsNumber}/recall")
}

func (s *Service) trigger(nomsNumber, path string) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Trigger for %s", nomsNumber),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetPathParam("nomsNumber", nomsNumber).
				Post(path)
		},
		OnSuccess: func(*resty.Response) core.Outcome {
			return core.Incomplete(fmt.Sprintf("Triggered test for %s", nomsNumber))
		},
		NotFound:            probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf("Trigger test failed. The offender %s can not be found", nomsNumber),
	}.Check
}

// UpdateOffenderDetails renames the fixture offender so the search index has
// something new to observe.
func (s *Service) UpdateOffenderDetails(nomsNumber, firstName, lastName string) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Update offender details for %s", nomsNumber),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(map[string]string{"firstName": firstName, "lastName": lastName}).
				SetPathParam("nomsNumber", nomsNumber).
				Post("/api/smoketest/offenders/{nomsNumber}/details")
		},
		OnSuccess: func(*resty.Response) core.Outcome {
			return core.Incomplete(fmt.Sprintf("Updated offender %s to %s %s", nomsNumber, firstName, lastName))
		},
		NotFound:            probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf("Update offender details failed. The offender %s can not be found", nomsNumber),
	}.Check
}
