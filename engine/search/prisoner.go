// Package search wraps the two search indexes the smoke tests observe:
// prisoner-offender-search and probation-offender-search. Both tests rename a
// fixture offender and then poll the index until the new name is searchable.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/probe"
)

// Prisoner matches the slice of the search document the tests care about.
type Prisoner struct {
	PrisonerNumber string `json:"prisonerNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
}

type globalSearchPage struct {
	Content []Prisoner `json:"content"`
}

func (p globalSearchPage) contains(nomsNumber, firstName, lastName string) bool {
	for _, found := range p.Content {
		if found.PrisonerNumber == nomsNumber && found.FirstName == firstName && found.LastName == lastName {
			return true
		}
	}
	return false
}

func (p globalSearchPage) describe() string {
	names := make([]string, 0, len(p.Content))
	for _, found := range p.Content {
		names = append(names, fmt.Sprintf("%s %s %s", found.PrisonerNumber, found.FirstName, found.LastName))
	}
	return strings.Join(names, ", ")
}

// PrisonerService issues calls against prisoner-offender-search.
type PrisonerService struct {
	client *resty.Client
}

func NewPrisonerService(client *resty.Client) *PrisonerService {
	return &PrisonerService{client: client}
}

// CheckOffenderExists verifies the fixture offender is indexed at all before
// the test mutates anything. A missing offender is fatal.
func (s *PrisonerService) CheckOffenderExists(nomsNumber string) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Check offender %s exists", nomsNumber),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.client.R().
				SetContext(ctx).
				SetPathParam("nomsNumber", nomsNumber).
				Get("/prisoner/{nomsNumber}")
		},
		OnSuccess: func(resp *resty.Response) core.Outcome {
			var found Prisoner
			if err := json.Unmarshal(resp.Body(), &found); err != nil {
				return core.Fail(fmt.Sprintf("Check prisoner search failed due to %s", err.Error()))
			}
			return core.Incomplete(fmt.Sprintf("Offender %s exists in prisoner search with name %s %s",
				nomsNumber, found.FirstName, found.LastName))
		},
		NotFound: probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf(
			"The offender %s can not be found. Check the offender has not be deleted in NOMIS", nomsNumber),
	}.Check
}

// CheckOffenderFound reports COMPLETE once a global search for the new name
// returns the renamed offender. Global search matches on the identifier, so
// a hit still carrying the old name means the index has not caught up yet.
func (s *PrisonerService) CheckOffenderFound(nomsNumber, firstName, lastName string) probe.CheckFunc {
	return s.globalSearch(nomsNumber, firstName, lastName, func(page globalSearchPage) core.Outcome {
		if page.contains(nomsNumber, firstName, lastName) {
			return core.Completed(fmt.Sprintf("Offender %s found with name %s %s", nomsNumber, firstName, lastName))
		}
		if len(page.Content) == 0 {
			return core.Incomplete(fmt.Sprintf("Still waiting for offender %s to be found with name %s %s",
				nomsNumber, firstName, lastName))
		}
		return core.Incomplete(fmt.Sprintf("Still waiting for offender %s to be found with name %s %s. Found %s instead",
			nomsNumber, firstName, lastName, page.describe()))
	})
}

// AssertOffenderMatches is the final stage: the search must return exactly
// the one renamed offender with every field up to date.
func (s *PrisonerService) AssertOffenderMatches(nomsNumber, firstName, lastName string) probe.CheckFunc {
	return s.globalSearch(nomsNumber, firstName, lastName, func(page globalSearchPage) core.Outcome {
		if len(page.Content) != 1 {
			return core.Fail(fmt.Sprintf("Check prisoner search failed. Expected exactly one match for %s but found %d",
				nomsNumber, len(page.Content)))
		}
		found := page.Content[0]
		if found.PrisonerNumber != nomsNumber || found.FirstName != firstName || found.LastName != lastName {
			return core.Fail(fmt.Sprintf("Check prisoner search failed. Expected %s %s %s but found %s %s %s",
				nomsNumber, firstName, lastName, found.PrisonerNumber, found.FirstName, found.LastName))
		}
		return core.Success(fmt.Sprintf("Offender %s is searchable as %s %s", nomsNumber, firstName, lastName))
	})
}

func (s *PrisonerService) globalSearch(nomsNumber, firstName, lastName string,
	evaluate func(globalSearchPage) core.Outcome) probe.CheckFunc {
	return probe.Definition{
		Name: fmt.Sprintf("Search for %s", nomsNumber),
		Call: func(ctx context.Context) (*resty.Response, error) {
			return s.client.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetBody(map[string]string{
					"prisonerIdentifier": nomsNumber,
					"firstName":          firstName,
					"lastName":           lastName,
				}).
				Post("/global-search")
		},
		OnSuccess: func(resp *resty.Response) core.Outcome {
			var page globalSearchPage
			if err := json.Unmarshal(resp.Body(), &page); err != nil {
				return core.Fail(fmt.Sprintf("Check prisoner search failed due to %s", err.Error()))
			}
			return evaluate(page)
		},
		NotFound:            probe.NotFoundFatal,
		NotFoundDescription: fmt.Sprintf("The offender %s can not be found", nomsNumber),
	}.Check
}
