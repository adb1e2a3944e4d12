// Package strouter exposes the smoke test HTTP endpoints. Each endpoint
// starts one run and streams its outcomes as server-sent events until the
// run ends or the client goes away.
package strouter

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/infra/monitoring"
	"github.com/justice-digital/dps-smoketest/engine/infra/server/router"
	"github.com/justice-digital/dps-smoketest/engine/profile"
	"github.com/justice-digital/dps-smoketest/engine/smoketest"
	"github.com/justice-digital/dps-smoketest/pkg/logger"
)

const heartbeatFreq = 15 * time.Second

// Router glues resolved profiles to workflow runs.
type Router struct {
	service *smoketest.Service
	metrics *monitoring.Metrics
}

func New(service *smoketest.Service, metrics *monitoring.Metrics) *Router {
	return &Router{service: service, metrics: metrics}
}

// Register mounts the smoke test endpoints on the given group.
func Register(group *gin.RouterGroup, service *smoketest.Service, metrics *monitoring.Metrics) {
	r := New(service, metrics)
	group.POST("/prison-to-probation-update/:testProfile", r.prisonToProbationUpdate)
	group.POST("/prisoner-search/:testProfile", r.prisonerSearch)
	group.POST("/prison-offender-events/:testProfile", r.prisonOffenderEvents)
	group.POST("/probation-search/:testProfile", r.probationSearch)
}

// prisonToProbationUpdate runs the prison-to-probation update smoke test.
//
//	@Summary		Run the prison-to-probation update smoke test
//	@Description	Streams test outcomes over Server-Sent Events until the test succeeds or fails.
//	@Tags			smoke-test
//	@Produce		text/event-stream
//	@Param			testProfile	path		string	true	"Test profile name"	example("PTPU_T3")
//	@Success		200			{string}	string	"SSE stream of outcomes"
//	@Failure		401			{object}	router.Error	"Missing or invalid token"
//	@Failure		403			{object}	router.Error	"Missing smoke test role"
//	@Security		BearerAuth
//	@Router			/smoke-test/prison-to-probation-update/{testProfile} [post]
func (r *Router) prisonToProbationUpdate(c *gin.Context) {
	name := c.Param("testProfile")
	params, ok := profile.Ptpu(name)
	if !ok {
		r.streamUnknownProfile(c, "prison-to-probation-update", name)
		return
	}
	r.stream(c, "prison-to-probation-update", r.service.PrisonToProbationUpdate(params))
}

// prisonerSearch runs the prisoner-search indexing smoke test.
//
//	@Summary		Run the prisoner search smoke test
//	@Description	Streams test outcomes over Server-Sent Events until the test succeeds or fails.
//	@Tags			smoke-test
//	@Produce		text/event-stream
//	@Param			testProfile	path		string	true	"Test profile name"	example("PSI_T3")
//	@Success		200			{string}	string	"SSE stream of outcomes"
//	@Failure		401			{object}	router.Error	"Missing or invalid token"
//	@Failure		403			{object}	router.Error	"Missing smoke test role"
//	@Security		BearerAuth
//	@Router			/smoke-test/prisoner-search/{testProfile} [post]
func (r *Router) prisonerSearch(c *gin.Context) {
	name := c.Param("testProfile")
	params, ok := profile.Psi(name)
	if !ok {
		r.streamUnknownProfile(c, "prisoner-search", name)
		return
	}
	r.stream(c, "prisoner-search", r.service.PrisonerSearch(params))
}

// prisonOffenderEvents runs the prison-offender-events smoke test.
//
//	@Summary		Run the prison offender events smoke test
//	@Description	Streams test outcomes over Server-Sent Events until the test succeeds or fails.
//	@Tags			smoke-test
//	@Produce		text/event-stream
//	@Param			testProfile	path		string	true	"Test profile name"	example("POE_T3")
//	@Success		200			{string}	string	"SSE stream of outcomes"
//	@Failure		401			{object}	router.Error	"Missing or invalid token"
//	@Failure		403			{object}	router.Error	"Missing smoke test role"
//	@Security		BearerAuth
//	@Router			/smoke-test/prison-offender-events/{testProfile} [post]
func (r *Router) prisonOffenderEvents(c *gin.Context) {
	name := c.Param("testProfile")
	params, ok := profile.Poe(name)
	if !ok {
		r.streamUnknownProfile(c, "prison-offender-events", name)
		return
	}
	r.stream(c, "prison-offender-events", r.service.PrisonOffenderEvents(params))
}

// probationSearch runs the probation-search smoke test.
//
//	@Summary		Run the probation search smoke test
//	@Description	Streams test outcomes over Server-Sent Events until the test succeeds or fails.
//	@Tags			smoke-test
//	@Produce		text/event-stream
//	@Param			testProfile	path		string	true	"Test profile name"	example("PSR_T3")
//	@Success		200			{string}	string	"SSE stream of outcomes"
//	@Failure		401			{object}	router.Error	"Missing or invalid token"
//	@Failure		403			{object}	router.Error	"Missing smoke test role"
//	@Security		BearerAuth
//	@Router			/smoke-test/probation-search/{testProfile} [post]
func (r *Router) probationSearch(c *gin.Context) {
	name := c.Param("testProfile")
	params, ok := profile.Psr(name)
	if !ok {
		r.streamUnknownProfile(c, "probation-search", name)
		return
	}
	r.stream(c, "probation-search", r.service.ProbationSearch(params))
}

// streamUnknownProfile still answers 200 with an event stream: the stream is
// the API, so an unknown profile is one FAIL frame, not an error body.
func (r *Router) streamUnknownProfile(c *gin.Context, test, name string) {
	stream := router.StartSSE(c.Writer)
	if stream == nil {
		router.RespondWithError(c, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}
	outcome := core.Fail("Unknown test profile " + name)
	if err := stream.WriteData(outcome); err != nil {
		logger.FromContext(c.Request.Context()).Warn("failed to write outcome", "test", test, "error", err)
	}
	if r.metrics != nil {
		r.metrics.RunStarted(test)
		r.metrics.RunFinished(test, core.ProgressFail)
	}
}

func (r *Router) stream(c *gin.Context, test string, runner smoketest.Runner) {
	ctx := c.Request.Context()
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With("test", test, "run_id", runID)
	ctx = logger.ContextWithLogger(ctx, log)

	stream := router.StartSSE(c.Writer)
	if stream == nil {
		router.RespondWithError(c, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}
	if r.metrics != nil {
		r.metrics.RunStarted(test)
	}
	log.Info("smoke test started")

	last := core.ProgressIncomplete
	defer func() {
		if r.metrics != nil {
			r.metrics.RunFinished(test, last)
		}
		log.Info("smoke test finished", "progress", last)
	}()

	outcomes := runner.Run(ctx)
	heartbeat := time.NewTicker(heartbeatFreq)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if err := stream.WriteHeartbeat(); err != nil {
				log.Warn("failed to write heartbeat", "error", err)
				return
			}
		case outcome, ok := <-outcomes:
			if !ok {
				return
			}
			last = outcome.Progress
			if err := stream.WriteData(outcome); err != nil {
				log.Warn("failed to write outcome", "error", err)
				return
			}
		}
	}
}
