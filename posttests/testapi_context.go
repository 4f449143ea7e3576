package posttests

import (
	"github.com/launchdarkly/posts-api-contract-tests/config"
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"
)

// PostsTestContext is the state shared by every test in a run. It is created once, after
// registration, and never modified.
type PostsTestContext struct {
	harness     *harness.TestHarness
	routes      config.Routes
	credentials servicedef.Credentials
	accessToken string
}

func requireContext(t *ldtest.T) PostsTestContext {
	if c, ok := t.Context().(PostsTestContext); ok {
		return c
	}
	panic("PostsTestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}
