package posttests

import (
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

func doAuthTests(t *ldtest.T) {
	t.RequireCapability(servicedef.CapabilityAuth)
	client := NewPostsClient(t)

	t.Run("login with registered credentials", func(t *ldtest.T) {
		resp := client.Login(t, requireContext(t).credentials)
		_ = RequireAccessToken(t, resp)
	})

	t.Run("register with an email that is already taken", func(t *ldtest.T) {
		resp := client.Register(t, requireContext(t).credentials, harness.FailOnStatusCode(false))
		assert.True(t, resp.StatusCode >= 400 && resp.StatusCode < 500,
			"expected a client error status, got %d", resp.StatusCode)
	})
}
