// Package smoketest assembles the workflow families: which probes run, in
// what order, against which collaborators. Each family takes a resolved test
// profile and returns a runnable workflow.
package smoketest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/justice-digital/dps-smoketest/engine/community"
	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/events"
	"github.com/justice-digital/dps-smoketest/engine/prison"
	"github.com/justice-digital/dps-smoketest/engine/profile"
	"github.com/justice-digital/dps-smoketest/engine/search"
	"github.com/justice-digital/dps-smoketest/engine/workflow"
	"github.com/justice-digital/dps-smoketest/pkg/logger"
)

// releasedEvent is the domain event a prisoner release produces.
const releasedEvent = "prison-offender-events.prisoner.released"

// Runner is a runnable smoke test: one outcome stream per call.
type Runner interface {
	Run(ctx context.Context) <-chan core.Outcome
}

// Service builds workflow runs from resolved profiles.
type Service struct {
	prison          *prison.Service
	community       *community.Service
	prisonerSearch  *search.PrisonerService
	probationSearch *search.ProbationService
	queue           *events.Service
	pollInterval    time.Duration
	maxDuration     time.Duration
}

func NewService(
	prisonSvc *prison.Service,
	communitySvc *community.Service,
	prisonerSearch *search.PrisonerService,
	probationSearch *search.ProbationService,
	queue *events.Service,
	pollInterval, maxDuration time.Duration,
) *Service {
	return &Service{
		prison:          prisonSvc,
		community:       communitySvc,
		prisonerSearch:  prisonerSearch,
		probationSearch: probationSearch,
		queue:           queue,
		pollInterval:    pollInterval,
		maxDuration:     maxDuration,
	}
}

// PrisonToProbationUpdate checks that an imprisonment status change in the
// prison record flows through to the probation custody record. The booking
// details are fetched first and parameterize every later stage.
func (s *Service) PrisonToProbationUpdate(params profile.PtpuParams) Runner {
	return &workflow.PreparedDefinition[prison.TestInputs]{
		Name: "prison-to-probation-update",
		Prepare: func(ctx context.Context) (core.Outcome, prison.TestInputs) {
			return s.prison.GetTestInputs(ctx, params.NomsNumber, params.CRN)
		},
		Build: func(inputs prison.TestInputs) []workflow.Stage {
			return []workflow.Stage{
				workflow.Single(s.community.ResetCustodyTestData(inputs.CRN)),
				workflow.Single(s.prison.TriggerImprisonmentStatusChange(inputs.NomsNumber)),
				workflow.Polling(s.pollInterval, s.maxDuration,
					s.community.CheckCustodyUpdated(inputs.NomsNumber, inputs.BookingNumber)),
				workflow.Single(s.community.AssertCustodyMatches(inputs.NomsNumber, inputs.BookingNumber, inputs.PrisonCode)),
			}
		},
	}
}

// PrisonerSearch checks that a name change in the prison record becomes
// searchable in prisoner-offender-search. The fixture offender is renamed to
// a random name, and renamed back once the run ends.
func (s *Service) PrisonerSearch(params profile.PsiParams) Runner {
	firstName, lastName := randomName(), randomName()
	return &workflow.Definition{
		Name: "prisoner-search",
		Stages: []workflow.Stage{
			workflow.Single(s.prisonerSearch.CheckOffenderExists(params.NomsNumber)),
			workflow.Announce(fmt.Sprintf("Will update offender %s to name %s %s", params.NomsNumber, firstName, lastName)),
			workflow.Single(s.prison.UpdateOffenderDetails(params.NomsNumber, firstName, lastName)),
			workflow.Polling(s.pollInterval, s.maxDuration,
				s.prisonerSearch.CheckOffenderFound(params.NomsNumber, firstName, lastName)),
			workflow.Single(s.prisonerSearch.AssertOffenderMatches(params.NomsNumber, firstName, lastName)),
		},
		Cleanup: func(ctx context.Context) {
			outcome := s.prison.UpdateOffenderDetails(params.NomsNumber, "PSI", "Smoketest")(ctx)
			if outcome.Progress == core.ProgressFail {
				logger.FromContext(ctx).Warn("failed to restore offender name",
					"noms_number", params.NomsNumber, "description", outcome.Description)
			}
		},
	}
}

// PrisonOffenderEvents checks that releasing a prisoner produces the matching
// domain event on the queue. The queue is purged first so the run only sees
// its own events.
func (s *Service) PrisonOffenderEvents(params profile.PoeParams) Runner {
	return &workflow.Definition{
		Name: "prison-offender-events",
		Stages: []workflow.Stage{
			workflow.Single(s.queue.PurgeCheck()),
			workflow.Announce(fmt.Sprintf("Will release prisoner %s", params.NomsNumber)),
			workflow.Single(s.prison.ReleasePrisoner(params.NomsNumber)),
			workflow.Polling(s.pollInterval, s.maxDuration,
				s.queue.CheckEventProduced(releasedEvent, params.NomsNumber, core.ProgressSuccess)),
		},
		Cleanup: func(ctx context.Context) {
			outcome := s.prison.RecallPrisoner(params.NomsNumber)(ctx)
			if outcome.Progress == core.ProgressFail {
				logger.FromContext(ctx).Warn("failed to recall released prisoner",
					"noms_number", params.NomsNumber, "description", outcome.Description)
			}
		},
	}
}

// ProbationSearch checks that probation-offender-search serves the fixture
// offender's record.
func (s *Service) ProbationSearch(params profile.PsrParams) Runner {
	return &workflow.Definition{
		Name: "probation-search",
		Stages: []workflow.Stage{
			workflow.Announce(fmt.Sprintf("Will search for offender %s as %s %s", params.CRN, params.FirstName, params.Surname)),
			workflow.Polling(s.pollInterval, s.maxDuration,
				s.probationSearch.CheckRecordFound(params.CRN, params.FirstName, params.Surname)),
			workflow.Single(s.probationSearch.AssertRecordFound(params.CRN, params.FirstName, params.Surname)),
		},
	}
}

const nameLetters = "abcdefghijklmnopqrstuvwxyz"

// randomName yields a fresh 10-letter surname-shaped string so each run has
// a name no earlier run indexed.
func randomName() string {
	name := make([]byte, 10)
	for i := range name {
		name[i] = nameLetters[rand.IntN(len(nameLetters))]
	}
	name[0] = name[0] - 'a' + 'A'
	return string(name)
}
