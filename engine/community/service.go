// Package community wraps the probation record API (community-api). The
// prison-to-probation update test first resets custody fixture data here and
// then watches the record until the update from the prison side lands.
package community

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/probe"
)

// Service issues calls against community-api.
type Service struct {
	client *resty.Client
}

func NewService(client *resty.Client) *Service {
	return &Service{client: client}
}

type custody struct {
	BookingNumber string `json:"bookingNumber"`
	Institution   struct {
		NomsPrisonInstitutionCode string `json:"nomsPrisonInstitutionCode"`
	} `json:"institution"`
	Status struct {
		Code string `json:"code"`
	} `json:"status"`
}

// ResetCustodyTestData puts the offender's custody record back into its
// pre-test state. A missing offender is fatal.
func (s *Service) ResetCustodyTestData(crn string) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Reset Community test data for %s", crn),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetPathParam("crn", crn).
				Post("/secure/smoketest/offenders/crn/{crn}/custody/reset")
		},
		OnSuccess: func(*resty.Response) core.Outcome {
			return core.Incomplete(fmt.Sprintf("Reset Community test data for %s", crn))
		},
		NotFound:            probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf("Reset Community test failed. The offender %s can not be found", crn),
	}.Check
}

// CheckCustodyUpdated reports COMPLETE once the custody record for the given
// booking exists. 404 means the update has not arrived yet and the probe
// should keep retrying.
func (s *Service) CheckCustodyUpdated(nomsNumber, bookingNumber string) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Check custody for %s", nomsNumber),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.custodyRequest(ctx, nomsNumber, bookingNumber)
		},
		OnSuccess: func(*resty.Response) core.Outcome {
			return core.Completed(fmt.Sprintf("Offender %s with booking %s has been updated", nomsNumber, bookingNumber))
		},
		NotFound: probe.NotFoundRetry,
		NotFoundDescription: fmt.Sprintf("Still waiting for offender %s with booking %s to be updated",
			nomsNumber, bookingNumber),
	}.Check
}

// AssertCustodyMatches is the final stage of a prison-to-probation update
// run: the custody record must show the expected prison and a sentenced
// custody status.
func (s *Service) AssertCustodyMatches(nomsNumber, bookingNumber, prisonCode string) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Assert custody for %s", nomsNumber),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.custodyRequest(ctx, nomsNumber, bookingNumber)
		},
		OnSuccess: func(resp *resty.Response) core.Outcome {
			var record custody
			if err := json.Unmarshal(resp.Body(), &record); err != nil {
				return core.Fail(fmt.Sprintf("Check custody failed due to %s", err.Error()))
			}
			if record.Institution.NomsPrisonInstitutionCode != prisonCode || record.Status.Code != "D" {
				return core.Fail(fmt.Sprintf(
					"Check custody failed. Expected prison %s with status D but was prison %s with status %s",
					prisonCode, record.Institution.NomsPrisonInstitutionCode, record.Status.Code))
			}
			return core.Success(fmt.Sprintf("Offender %s with booking %s is in prison %s with a sentenced custody status",
				nomsNumber, bookingNumber, prisonCode))
		},
		NotFound:            probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf("Check custody failed. The offender %s can not be found", nomsNumber),
	}.Check
}

func (s *Service) custodyRequest(ctx context.Context, nomsNumber, bookingNumber string) (*resty.Response, error) {
	return s.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"nomsNumber": nomsNumber, "bookingNumber": bookingNumber}).
		Get("/secure/offenders/nomsNumber/{nomsNumber}/custody/bookingNumber/{bookingNumber}")
}
