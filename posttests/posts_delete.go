package posttests

import (
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

func doDeletePostTests(t *ldtest.T) {
	client := NewPostsClient(t)

	t.Run("non-existent post", func(t *ldtest.T) {
		resp := client.DeletePostByID(t, RandomNonExistentID())
		m.In(t).Assert(resp, HasStatus(404))
	})

	t.Run("create update delete lifecycle", func(t *ldtest.T) {
		resp := client.CreatePost(t, RandomPost())
		m.In(t).Assert(resp, HasStatus(201))
		id := RequirePostID(t, resp)

		m.In(t).Assert(client.UpdatePostByID(t, id, RandomPost()), HasStatus(200))

		m.In(t).Assert(client.DeletePostByID(t, id), HasStatus(200))
		m.In(t).Assert(client.GetPostByID(t, id), HasStatus(404))
	})
}
