package posttests

import (
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

func doUpdatePostTests(t *ldtest.T) {
	client := NewPostsClient(t)

	t.Run("non-existent post", func(t *ldtest.T) {
		resp := client.UpdatePostByID(t, RandomNonExistentID(), RandomPost())
		m.In(t).Assert(resp, HasStatus(404))
	})

	t.Run("created post", func(t *ldtest.T) {
		original := RandomPost()
		resp := client.CreatePost(t, original)
		m.In(t).Assert(resp, m.AllOf(
			HasStatus(201),
			ResponsePost().Should(PostTitle().Should(m.Equal(original.Title))),
		))
		id := RequirePostID(t, resp)

		changed := RandomPostWithDifferentTitle(original)
		updateResp := client.UpdatePostByID(t, id, changed)
		m.In(t).Assert(updateResp, HasStatus(200))

		// The id returned by the update is used for the read, so this also checks that it didn't change.
		got := client.GetPostByID(t, RequirePostID(t, updateResp))
		m.In(t).Assert(got, m.AllOf(
			HasStatus(200),
			ResponsePost().Should(m.AllOf(
				PostTitle().Should(m.Equal(changed.Title)),
				PostTitle().Should(m.Not(m.Equal(original.Title))),
			)),
		))
	})
}
