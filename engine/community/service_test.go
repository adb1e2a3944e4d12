package community_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"

	"github.com/justice-digital/dps-smoketest/engine/community"
	"github.com/justice-digital/dps-smoketest/engine/core"
)

func newService(t *testing.T, handler http.HandlerFunc) *community.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return community.NewService(resty.New().SetBaseURL(srv.URL))
}

func TestResetCustodyTestData(t *testing.T) {
	t.Run("Should reset the custody record", func(t *testing.T) {
		var method, path string
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			w.WriteHeader(http.StatusOK)
		})
		outcome := svc.ResetCustodyTestData("X360040")(context.Background())
		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, "/secure/smoketest/offenders/crn/X360040/custody/reset", path)
		assert.Equal(t, core.Incomplete("Reset Community test data for X360040"), outcome)
	})

	t.Run("Should fail when the offender can not be found", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		outcome := svc.ResetCustodyTestData("X360040")(context.Background())
		assert.Equal(t, core.Fail("Reset Community test failed. The offender X360040 can not be found"), outcome)
	})
}

func TestCheckCustodyUpdated(t *testing.T) {
	t.Run("Should complete once the record exists", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/secure/offenders/nomsNumber/A7742DY/custody/bookingNumber/38479A", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})
		outcome := svc.CheckCustodyUpdated("A7742DY", "38479A")(context.Background())
		assert.Equal(t, core.Completed("Offender A7742DY with booking 38479A has been updated"), outcome)
	})

	t.Run("Should keep waiting on 404", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		outcome := svc.CheckCustodyUpdated("A7742DY", "38479A")(context.Background())
		assert.Equal(t, core.Incomplete("Still waiting for offender A7742DY with booking 38479A to be updated"), outcome)
	})

	t.Run("Should fail on a server error", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		outcome := svc.CheckCustodyUpdated("A7742DY", "38479A")(context.Background())
		assert.Equal(t, core.ProgressFail, outcome.Progress)
	})
}

func TestAssertCustodyMatches(t *testing.T) {
	custodyBody := func(prison, status string) string {
		return `{"bookingNumber":"38479A","institution":{"nomsPrisonInstitutionCode":"` + prison +
			`"},"status":{"code":"` + status + `"}}`
	}

	t.Run("Should succeed when prison and status match", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(custodyBody("MDI", "D")))
		})
		outcome := svc.AssertCustodyMatches("A7742DY", "38479A", "MDI")(context.Background())
		assert.Equal(t, core.ProgressSuccess, outcome.Progress)
	})

	t.Run("Should fail when the prison differs", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(custodyBody("WWI", "D")))
		})
		outcome := svc.AssertCustodyMatches("A7742DY", "38479A", "MDI")(context.Background())
		assert.Equal(t, core.ProgressFail, outcome.Progress)
		assert.Contains(t, outcome.Description, "Expected prison MDI")
	})

	t.Run("Should fail when the custody status is not sentenced", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(custodyBody("MDI", "R")))
		})
		outcome := svc.AssertCustodyMatches("A7742DY", "38479A", "MDI")(context.Background())
		assert.Equal(t, core.ProgressFail, outcome.Progress)
	})

	t.Run("Should fail when the offender can not be found", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		outcome := svc.AssertCustodyMatches("A7742DY", "38479A", "MDI")(context.Background())
		assert.Equal(t, core.Fail("Check custody failed. The offender A7742DY can not be found"), outcome)
	})
}
