package posttests

import (
	"strconv"

	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	h "github.com/launchdarkly/posts-api-contract-tests/framework/helpers"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

const firstPageSize = 10

func doListPostsTests(t *ldtest.T) {
	client := NewPostsClient(t)

	t.Run("get all posts", func(t *ldtest.T) {
		resp := client.ListPosts(t)
		m.In(t).Assert(resp, m.AllOf(
			HasStatus(200),
			Header("Content-Type").Should(m.StringContains("application/json")),
		))
	})

	t.Run("first 10 posts sorted by id", func(t *ldtest.T) {
		t.RequireCapability(servicedef.CapabilityPagination)

		resp := client.ListPosts(t,
			harness.WithQuery(servicedef.QuerySort, "id"),
			harness.WithQuery(servicedef.QueryOrder, servicedef.OrderAscending),
			harness.WithQuery(servicedef.QueryLimit, strconv.Itoa(firstPageSize)),
		)
		m.In(t).Assert(resp, m.AllOf(
			HasStatus(200),
			PostIDs().Should(m.Equal(h.Sequence(1, firstPageSize))),
		))
	})

	t.Run("posts by explicit ids", func(t *ldtest.T) {
		t.RequireCapability(servicedef.CapabilityPagination)

		resp := client.ListPosts(t,
			harness.WithQuery(servicedef.QueryID, "55", "60"),
			harness.WithQuery(servicedef.QuerySort, "id"),
			harness.WithQuery(servicedef.QueryOrder, servicedef.OrderAscending),
		)
		m.In(t).Assert(resp, m.AllOf(
			HasStatus(200),
			PostIDs().Should(m.Equal([]int{55, 60})),
		))
	})
}
