package smoketest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justice-digital/dps-smoketest/engine/community"
	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/events"
	"github.com/justice-digital/dps-smoketest/engine/prison"
	"github.com/justice-digital/dps-smoketest/engine/profile"
	"github.com/justice-digital/dps-smoketest/engine/search"
	"github.com/justice-digital/dps-smoketest/engine/smoketest"
)

type fakeQueue struct {
	messages []types.Message
	purged   int
}

func (f *fakeQueue) ReceiveMessage(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if len(f.messages) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	next := f.messages[0]
	f.messages = f.messages[1:]
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{next}}, nil
}

func (f *fakeQueue) DeleteMessage(_ context.Context, _ *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeQueue) PurgeQueue(_ context.Context, _ *sqs.PurgeQueueInput, _ ...func(*sqs.Options)) (*sqs.PurgeQueueOutput, error) {
	f.purged++
	return &sqs.PurgeQueueOutput{}, nil
}

func (f *fakeQueue) GetQueueAttributes(_ context.Context, _ *sqs.GetQueueAttributesInput, _ ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	return &sqs.GetQueueAttributesOutput{Attributes: map[string]string{
		string(types.QueueAttributeNameApproximateNumberOfMessages):           "0",
		string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible): "0",
	}}, nil
}

type fixture struct {
	service *smoketest.Service
	queue   *fakeQueue
}

// newFixture wires the workflow service against fake collaborators that
// behave like a healthy environment.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	prisonSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bookingNo":"38479A","agencyId":"MDI"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(prisonSrv.Close)

	communitySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bookingNumber":"38479A","institution":{"nomsPrisonInstitutionCode":"MDI"},"status":{"code":"D"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(communitySrv.Close)

	// Global search echoes the requested name back as a single hit.
	prisonerSearchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"prisonerNumber":"A7742DY","firstName":"PSI","lastName":"Smoketest"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		var criteria map[string]string
		require.NoError(t, json.Unmarshal(body, &criteria))
		hit, _ := json.Marshal(map[string]any{"content": []map[string]string{{
			"prisonerNumber": criteria["prisonerIdentifier"],
			"firstName":      criteria["firstName"],
			"lastName":       criteria["lastName"],
		}}})
		_, _ = w.Write(hit)
	}))
	t.Cleanup(prisonerSearchSrv.Close)

	probationSearchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"otherIds":{"crn":"X360040"}}]`))
	}))
	t.Cleanup(probationSearchSrv.Close)

	queue := &fakeQueue{}
	service := smoketest.NewService(
		prison.NewService(resty.New().SetBaseURL(prisonSrv.URL)),
		community.NewService(resty.New().SetBaseURL(communitySrv.URL)),
		search.NewPrisonerService(resty.New().SetBaseURL(prisonerSearchSrv.URL)),
		search.NewProbationService(resty.New().SetBaseURL(probationSearchSrv.URL)),
		events.NewService(queue, "http://localhost:4566/000000000000/domain-events"),
		10*time.Millisecond,
		time.Second,
	)
	return &fixture{service: service, queue: queue}
}

func drain(t *testing.T, runner smoketest.Runner) []core.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var outcomes []core.Outcome
	for outcome := range runner.Run(ctx) {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func TestPrisonToProbationUpdate(t *testing.T) {
	t.Run("Should run every stage through to success", func(t *testing.T) {
		f := newFixture(t)
		params, ok := profile.Ptpu("PTPU_T3")
		require.True(t, ok)

		outcomes := drain(t, f.service.PrisonToProbationUpdate(params))

		require.Len(t, outcomes, 5)
		assert.Contains(t, outcomes[0].Description, "Retrieved test inputs")
		assert.Equal(t, core.Incomplete("Reset Community test data for X360040"), outcomes[1])
		assert.Equal(t, core.Incomplete("Triggered test for A7742DY"), outcomes[2])
		assert.Equal(t, core.ProgressComplete, outcomes[3].Progress)
		assert.Equal(t, core.ProgressSuccess, outcomes[4].Progress)
	})

	t.Run("Should stop at the prepare step when inputs can not be gathered", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(broken.Close)
		service := smoketest.NewService(
			prison.NewService(resty.New().SetBaseURL(broken.URL)),
			nil, nil, nil, nil,
			10*time.Millisecond, time.Second,
		)

		outcomes := drain(t, service.PrisonToProbationUpdate(profile.PtpuParams{CRN: "X360040", NomsNumber: "A7742DY"}))

		require.Len(t, outcomes, 1)
		assert.Equal(t, core.ProgressFail, outcomes[0].Progress)
	})
}

func TestPrisonerSearch(t *testing.T) {
	t.Run("Should rename, find and assert the offender", func(t *testing.T) {
		f := newFixture(t)
		params, ok := profile.Psi("PSI_T3")
		require.True(t, ok)

		outcomes := drain(t, f.service.PrisonerSearch(params))

		require.Len(t, outcomes, 5)
		assert.Contains(t, outcomes[0].Description, "exists in prisoner search")
		assert.Contains(t, outcomes[1].Description, "Will update offender A7742DY")
		assert.Contains(t, outcomes[2].Description, "Updated offender A7742DY")
		assert.Equal(t, core.ProgressComplete, outcomes[3].Progress)
		assert.Equal(t, core.ProgressSuccess, outcomes[4].Progress)
	})

	t.Run("Should keep polling while the index still serves the old name", func(t *testing.T) {
		prisonSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(prisonSrv.Close)

		// The first search still answers with the pre-rename name; later
		// searches echo the requested one, as a converged index would.
		var searches atomic.Int32
		searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte(`{"prisonerNumber":"A7742DY","firstName":"PSI","lastName":"Smoketest"}`))
				return
			}
			if searches.Add(1) == 1 {
				_, _ = w.Write([]byte(`{"content":[{"prisonerNumber":"A7742DY","firstName":"PSI","lastName":"Smoketest"}]}`))
				return
			}
			body, _ := io.ReadAll(r.Body)
			var criteria map[string]string
			require.NoError(t, json.Unmarshal(body, &criteria))
			hit, _ := json.Marshal(map[string]any{"content": []map[string]string{{
				"prisonerNumber": criteria["prisonerIdentifier"],
				"firstName":      criteria["firstName"],
				"lastName":       criteria["lastName"],
			}}})
			_, _ = w.Write(hit)
		}))
		t.Cleanup(searchSrv.Close)

		service := smoketest.NewService(
			prison.NewService(resty.New().SetBaseURL(prisonSrv.URL)),
			nil,
			search.NewPrisonerService(resty.New().SetBaseURL(searchSrv.URL)),
			nil, nil,
			10*time.Millisecond, time.Second,
		)
		params, ok := profile.Psi("PSI_T3")
		require.True(t, ok)

		outcomes := drain(t, service.PrisonerSearch(params))

		require.Len(t, outcomes, 6)
		assert.Equal(t, core.ProgressIncomplete, outcomes[3].Progress)
		assert.Contains(t, outcomes[3].Description, "Found A7742DY PSI Smoketest instead")
		assert.Equal(t, core.ProgressComplete, outcomes[4].Progress)
		assert.Equal(t, core.ProgressSuccess, outcomes[5].Progress)
	})
}

func TestPrisonOffenderEvents(t *testing.T) {
	t.Run("Should purge, release and observe the released event", func(t *testing.T) {
		f := newFixture(t)
		body := `{"MessageId":"msg-1","MessageAttributes":{"eventType":{"Value":"prison-offender-events.prisoner.released"}},` +
			`"Message":"{\"additionalInformation\":{\"nomsNumber\":\"A7742DY\"}}"}`
		f.queue.messages = []types.Message{{Body: aws.String(body), ReceiptHandle: aws.String("h1")}}
		params, ok := profile.Poe("POE_T3")
		require.True(t, ok)

		outcomes := drain(t, f.service.PrisonOffenderEvents(params))

		require.Len(t, outcomes, 4)
		assert.Equal(t, core.Incomplete("Purged the domain event queue"), outcomes[0])
		assert.Equal(t, core.Incomplete("Will release prisoner A7742DY"), outcomes[1])
		assert.Equal(t, core.Incomplete("Triggered test for A7742DY"), outcomes[2])
		assert.Equal(t, core.ProgressSuccess, outcomes[3].Progress)
		assert.Equal(t, 1, f.queue.purged)
	})
}

func TestProbationSearch(t *testing.T) {
	t.Run("Should find and assert the probation record", func(t *testing.T) {
		f := newFixture(t)
		params, ok := profile.Psr("PSR_T3")
		require.True(t, ok)

		outcomes := drain(t, f.service.ProbationSearch(params))

		require.Len(t, outcomes, 3)
		assert.Contains(t, outcomes[0].Description, "Will search for offender X360040")
		assert.Equal(t, core.ProgressComplete, outcomes[1].Progress)
		assert.Equal(t, core.ProgressSuccess, outcomes[2].Progress)
	})
}
