package posttests

import (
	"fmt"
	"os"

	"github.com/launchdarkly/posts-api-contract-tests/config"
	"github.com/launchdarkly/posts-api-contract-tests/framework"
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"
)

// RunPostsTestSuite registers a new user, and then runs every test against the service using
// that user's access token. If registration fails, no tests are run and the results contain
// only that failure.
func RunPostsTestSuite(
	harness *harness.TestHarness,
	cfg config.Config,
	filter ldtest.Filter,
	testLogger ldtest.TestLogger,
) ldtest.Results {
	capabilities := cfg.CapabilitySet()

	creds := RandomCredentials()
	client := newPostsClient(harness, cfg.Routes)
	fmt.Printf("Registering user %s\n", creds.Email)
	resp, err := client.register(creds, framework.NullLogger())
	if err == nil && resp.Body.GetByKey("accessToken").StringValue() == "" {
		err = fmt.Errorf("registration response did not contain an access token: %s", string(resp.RawBody))
	}
	if err != nil {
		return ldtest.Results{
			Failures: []ldtest.TestResult{
				{Errors: []error{fmt.Errorf("could not register a user for the test run: %w", err)}},
			},
		}
	}

	fmt.Println()
	if sdf, ok := filter.(ldtest.SelfDescribingFilter); ok {
		sdf.Describe(os.Stdout, capabilities, servicedef.AllCapabilities())
	}

	testConfig := ldtest.TestConfiguration{
		Filter:       filter,
		Capabilities: capabilities,
		TestLogger:   testLogger,
		Context: PostsTestContext{
			harness:     harness,
			routes:      cfg.Routes,
			credentials: creds,
			accessToken: resp.Body.GetByKey("accessToken").StringValue(),
		},
	}

	return ldtest.Run(testConfig, doAllPostsTests)
}

func doAllPostsTests(t *ldtest.T) {
	t.Run("list", doListPostsTests)
	t.Run("create", doCreatePostTests)
	t.Run("update", doUpdatePostTests)
	t.Run("delete", doDeletePostTests)
	t.Run("auth", doAuthTests)
}
