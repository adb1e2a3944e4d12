package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/probe"
)

type probationMatch struct {
	OtherIDs struct {
		CRN string `json:"crn"`
	} `json:"otherIds"`
}

// ProbationService issues calls against probation-offender-search.
type ProbationService struct {
	client *resty.Client
}

func NewProbationService(client *resty.Client) *ProbationService {
	return &ProbationService{client: client}
}

// CheckRecordFound reports COMPLETE once a search for the new name returns
// the offender.
func (s *ProbationService) CheckRecordFound(crn, firstName, surname string) probe.CheckFunc {
	return s.search(crn, firstName, surname, func(matches []probationMatch) core.Outcome {
		if len(matches) == 0 {
			return core.Incomplete(fmt.Sprintf("Still waiting for offender %s to be found with name %s %s",
				crn, firstName, surname))
		}
		return core.Completed(fmt.Sprintf("Offender %s found with name %s %s", crn, firstName, surname))
	})
}

// AssertRecordFound is the final stage of a probation search run.
func (s *ProbationService) AssertRecordFound(crn, firstName, surname string) probe.CheckFunc {
	return s.search(crn, firstName, surname, func(matches []probationMatch) core.Outcome {
		if len(matches) == 0 {
			return core.Fail(fmt.Sprintf("Check probation search failed. Offender %s not found with name %s %s",
				crn, firstName, surname))
		}
		return core.Success(fmt.Sprintf("Offender %s is searchable as %s %s", crn, firstName, surname))
	})
}

func (s *ProbationService) search(crn, firstName, surname string,
	evaluate func([]probationMatch) core.Outcome) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Search for %s", crn),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(map[string]string{
					"crn":       crn,
					"firstName": firstName,
					"surname":   surname,
				}).
				Post("/search")
		},
		OnSuccess: func(resp *resty.Response) core.Outcome {
			var matches []probationMatch
			if err := json.Unmarshal(resp.Body(), &matches); err != nil {
				return core.Fail(fmt.Sprintf("Check probation search failed due to %s", err.Error()))
			}
			return evaluate(matches)
		},
		NotFound:            probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf("The offender %s can not be found", crn),
	}.Check
}
