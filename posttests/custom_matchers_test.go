package posttests

import (
	"net/http"
	"testing"

	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	h "github.com/launchdarkly/posts-api-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
)

func makeResponse(status int, body string) harness.Response {
	return harness.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       ldvalue.Parse([]byte(body)),
		RawBody:    []byte(body),
	}
}

func TestResponseMatchers(t *testing.T) {
	resp := makeResponse(201, `{"id":7,"title":"a title","body":"a body"}`)

	m.In(t).Assert(resp, m.AllOf(
		HasStatus(201),
		Header("content-type").Should(m.Equal("application/json")),
		ResponsePost().Should(m.AllOf(
			PostTitle().Should(m.Equal("a title")),
			PostBody().Should(m.Equal("a body")),
		)),
	))

	list := makeResponse(200, `[{"id":3},{"id":1},{"id":2}]`)
	m.In(t).Assert(list, PostIDs().Should(m.Equal([]int{3, 1, 2})))

	pass, _ := PostIDs().Should(m.Equal([]int{})).Test(makeResponse(200, `{}`))
	assert.False(t, pass)
}

func TestRequireAccessToken(t *testing.T) {
	t.Run("token present", func(t *testing.T) {
		var r h.TestRecorder
		token := RequireAccessToken(&r, makeResponse(201, `{"accessToken":"abc","user":{"id":1}}`))
		assert.Equal(t, "abc", token)
		assert.NoError(t, r.Err())
		assert.False(t, r.Terminated)
	})

	t.Run("token missing", func(t *testing.T) {
		var r h.TestRecorder
		token := RequireAccessToken(&r, makeResponse(201, `{"user":{"id":1},"a":true}`))
		assert.Equal(t, "", token)
		assert.True(t, r.Terminated)
		if assert.Error(t, r.Err()) {
			assert.Contains(t, r.Err().Error(), `{"a":true,"user":{"id":1}}`)
		}
	})
}
