package posttests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/posts-api-contract-tests/config"
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/mockapi"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTestIDs = []string{
	"list",
	"list/get all posts",
	"list/first 10 posts sorted by id",
	"list/posts by explicit ids",
	"create",
	"create/protected route without access token",
	"create/protected route with access token",
	"create/JSON string body",
	"create/created post matches submitted fields",
	"update",
	"update/non-existent post",
	"update/created post",
	"delete",
	"delete/non-existent post",
	"delete/create update delete lifecycle",
	"auth",
	"auth/login with registered credentials",
	"auth/register with an email that is already taken",
}

func runSuiteAgainst(t *testing.T, handler http.Handler, cfg config.Config, filter ldtest.Filter) ldtest.Results {
	var results ldtest.Results
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		cfg.BaseURL = server.URL
		hc := cfg.HarnessConfig()
		hc.StatusQueryTimeout = time.Second
		th, err := harness.NewTestHarness(hc)
		require.NoError(t, err)
		results = RunPostsTestSuite(th, cfg, filter, nil)
	})
	return results
}

func runSuiteAgainstMock(t *testing.T, cfg config.Config, filter ldtest.Filter) ldtest.Results {
	service, err := mockapi.NewPostsService(cfg.Routes, cfg.Mock, nil)
	require.NoError(t, err)
	return runSuiteAgainst(t, service, cfg, filter)
}

func testIDStrings(results []ldtest.TestResult) []string {
	ret := make([]string, 0, len(results))
	for _, r := range results {
		if len(r.TestID) > 0 {
			ret = append(ret, r.TestID.String())
		}
	}
	return ret
}

func TestSuitePassesAgainstMockService(t *testing.T) {
	results := runSuiteAgainstMock(t, config.Default(), nil)

	for _, f := range results.Failures {
		t.Logf("unexpected failure in %s: %v", f.TestID, f.Errors)
	}
	assert.True(t, results.OK())
	assert.ElementsMatch(t, allTestIDs, testIDStrings(results.Tests))
}

func TestSuiteWithCustomRoutes(t *testing.T) {
	cfg := config.Default()
	cfg.Routes.Posts = "/api/v1/posts"
	cfg.Routes.ProtectedPrefix = "/guarded"
	cfg.StatusPath = "/api/v1/posts"

	results := runSuiteAgainstMock(t, cfg, nil)
	assert.True(t, results.OK())
	assert.ElementsMatch(t, allTestIDs, testIDStrings(results.Tests))
}

func TestSuiteSkipsTestsForMissingCapabilities(t *testing.T) {
	cfg := config.Default()
	cfg.Capabilities = nil

	results := runSuiteAgainstMock(t, cfg, nil)
	assert.True(t, results.OK())
	assert.ElementsMatch(t, []string{
		"list",
		"list/get all posts",
		"create",
		"create/JSON string body",
		"create/created post matches submitted fields",
		"update",
		"update/non-existent post",
		"update/created post",
		"delete",
		"delete/non-existent post",
		"delete/create update delete lifecycle",
	}, testIDStrings(results.Tests))
}

func TestSuiteAppliesFilter(t *testing.T) {
	var filter ldtest.RegexFilters
	require.NoError(t, filter.MustMatch.Set("delete"))
	require.NoError(t, filter.MustNotMatch.Set("delete/non-existent"))

	results := runSuiteAgainstMock(t, config.Default(), filter)
	assert.True(t, results.OK())
	assert.ElementsMatch(t, []string{"delete", "delete/create update delete lifecycle"},
		testIDStrings(results.Tests))
}

func TestSuiteFailsWithoutRunningTestsIfRegistrationFails(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(400, nil, []byte(`"Email already exists"`))
	results := runSuiteAgainst(t, handler, config.Default(), nil)

	assert.False(t, results.OK())
	assert.Len(t, results.Tests, 0)
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "could not register a user")
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "status 400")
}

func TestSuiteFailsIfRegistrationHasNoToken(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(201, nil, []byte(`{"user":{"id":1}}`))
	results := runSuiteAgainst(t, handler, config.Default(), nil)

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "did not contain an access token")
}

// brokenService registers users normally but answers every posts request with the same status.
func brokenService(t *testing.T, cfg config.Config, status int) http.Handler {
	service, err := mockapi.NewPostsService(cfg.Routes, cfg.Mock, nil)
	require.NoError(t, err)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == servicedef.DefaultRegisterPath || r.URL.Path == servicedef.DefaultLoginPath {
			service.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(status)
	})
}

func TestSuiteReportsFailuresOfBrokenService(t *testing.T) {
	cfg := config.Default()
	cfg.StatusPath = servicedef.DefaultRegisterPath
	results := runSuiteAgainst(t, brokenService(t, cfg, 500), cfg, nil)

	assert.False(t, results.OK())
	failed := make([]string, 0)
	for _, id := range results.FailedIDs() {
		failed = append(failed, id.String())
	}
	assert.Contains(t, failed, "list/get all posts")
	assert.Contains(t, failed, "create/JSON string body")
	assert.Contains(t, failed, "update/non-existent post")
	assert.Contains(t, failed, "delete/create update delete lifecycle")
	assert.NotContains(t, failed, "auth/login with registered credentials")

	// one failing test does not stop the others from running
	assert.ElementsMatch(t, allTestIDs, testIDStrings(results.Tests))
}

func TestSuiteLifecycleReliesOnlyOnStatusOfUpdate(t *testing.T) {
	cfg := config.Default()
	service, err := mockapi.NewPostsService(cfg.Routes, cfg.Mock, nil)
	require.NoError(t, err)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "PATCH" {
			rec := httptest.NewRecorder()
			service.ServeHTTP(rec, r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rec.Code)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		service.ServeHTTP(w, r)
	})
	results := runSuiteAgainst(t, handler, cfg, nil)

	failed := make([]string, 0)
	for _, id := range results.FailedIDs() {
		failed = append(failed, id.String())
	}
	assert.ElementsMatch(t, []string{"update/created post"}, failed)
}

func TestSuiteDetectsServiceThatNeverDeletes(t *testing.T) {
	cfg := config.Default()
	service, err := mockapi.NewPostsService(cfg.Routes, cfg.Mock, nil)
	require.NoError(t, err)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "DELETE" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
			return
		}
		service.ServeHTTP(w, r)
	})
	results := runSuiteAgainst(t, handler, cfg, nil)

	failed := make([]string, 0)
	for _, id := range results.FailedIDs() {
		failed = append(failed, id.String())
	}
	assert.ElementsMatch(t, []string{"delete/non-existent post", "delete/create update delete lifecycle"}, failed)
}
