package posttests

import (
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

func doCreatePostTests(t *ldtest.T) {
	client := NewPostsClient(t)

	t.Run("protected route without access token", func(t *ldtest.T) {
		t.RequireCapability(servicedef.CapabilityProtectedRoutes)

		resp := client.CreateProtectedPost(t, RandomPost(), harness.FailOnStatusCode(false))
		m.In(t).Assert(resp, HasStatus(401))
	})

	t.Run("protected route with access token", func(t *ldtest.T) {
		t.RequireCapability(servicedef.CapabilityProtectedRoutes)

		resp := client.CreateProtectedPost(t, RandomPost(), harness.WithBearerToken(requireContext(t).accessToken))
		m.In(t).Assert(resp, HasStatus(201))

		id := RequirePostID(t, resp)
		m.In(t).Assert(client.GetPostByID(t, id), HasStatus(200))
	})

	t.Run("JSON string body", func(t *ldtest.T) {
		body := string(jsonhelpers.ToJSON(RandomPost()))
		resp := client.CreatePost(t, body, harness.WithHeader("content-type", "application/json"))
		m.In(t).Assert(resp, HasStatus(201))

		id := RequirePostID(t, resp)
		m.In(t).Assert(client.GetPostByID(t, id), HasStatus(200))
	})

	t.Run("created post matches submitted fields", func(t *ldtest.T) {
		post := RandomPost()
		resp := client.CreatePost(t, post)
		m.In(t).Assert(resp, m.AllOf(
			HasStatus(201),
			ResponsePost().Should(m.AllOf(
				PostTitle().Should(m.Equal(post.Title)),
				PostBody().Should(m.Equal(post.Body)),
			)),
		))

		got := client.GetPostByID(t, RequirePostID(t, resp))
		m.In(t).Assert(got, m.AllOf(
			HasStatus(200),
			ResponsePost().Should(m.AllOf(
				PostTitle().Should(m.Equal(post.Title)),
				PostBody().Should(m.Equal(post.Body)),
			)),
		))
	})
}
