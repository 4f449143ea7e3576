package posttests

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	h "github.com/launchdarkly/posts-api-contract-tests/framework/helpers"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/require"
)

// The functions in this file are for convenient use of the matchers API with harness.Response.
// For more information, see matchers.Transform.

func StatusCode() m.MatcherTransform {
	return m.Transform(
		"status code",
		func(value interface{}) (interface{}, error) {
			return value.(harness.Response).StatusCode, nil
		}).
		EnsureInputValueType(harness.Response{})
}

func Header(name string) m.MatcherTransform {
	return m.Transform(
		fmt.Sprintf("header %q", name),
		func(value interface{}) (interface{}, error) {
			return value.(harness.Response).Header.Get(name), nil
		}).
		EnsureInputValueType(harness.Response{})
}

// ResponsePost decodes the response body as a single post.
func ResponsePost() m.MatcherTransform {
	return m.Transform(
		"post",
		func(value interface{}) (interface{}, error) {
			var p servicedef.Post
			if err := json.Unmarshal(value.(harness.Response).RawBody, &p); err != nil {
				return nil, fmt.Errorf("response body is not a post (%w)", err)
			}
			return p, nil
		}).
		EnsureInputValueType(harness.Response{})
}

// PostIDs decodes the response body as an array of posts and returns their ids in order.
func PostIDs() m.MatcherTransform {
	return m.Transform(
		"post ids",
		func(value interface{}) (interface{}, error) {
			var l servicedef.PostList
			if err := json.Unmarshal(value.(harness.Response).RawBody, &l); err != nil {
				return nil, fmt.Errorf("response body is not an array of posts (%w)", err)
			}
			return l.IDs(), nil
		}).
		EnsureInputValueType(harness.Response{})
}

func PostTitle() m.MatcherTransform {
	return m.Transform(
		"title",
		func(value interface{}) (interface{}, error) {
			return value.(servicedef.Post).Title, nil
		}).
		EnsureInputValueType(servicedef.Post{})
}

func PostBody() m.MatcherTransform {
	return m.Transform(
		"body",
		func(value interface{}) (interface{}, error) {
			return value.(servicedef.Post).Body, nil
		}).
		EnsureInputValueType(servicedef.Post{})
}

// HasStatus is shorthand for asserting the status code of a response.
func HasStatus(status int) m.Matcher {
	return StatusCode().Should(m.Equal(status))
}

// RequirePostID returns the "id" property of a response body, failing the test if there isn't a
// usable one. A numeric string is accepted.
func RequirePostID(t *ldtest.T, resp harness.Response) int {
	t.Helper()
	id := resp.Body.GetByKey("id")
	switch id.Type() {
	case ldvalue.NumberType:
		if id.IsInt() {
			return id.IntValue()
		}
	case ldvalue.StringType:
		if n, err := strconv.Atoi(id.StringValue()); err == nil {
			return n
		}
	}
	require.Fail(t, "response did not contain a post id", "body: %s", h.CanonicalizedJSONString(resp.Body))
	return 0
}

// RequireAccessToken returns the "accessToken" property of a response body, failing the test if it
// is missing or empty.
func RequireAccessToken(t h.TestContext, resp harness.Response) string {
	token := resp.Body.GetByKey("accessToken").StringValue()
	require.NotEmpty(t, token, "response did not contain an access token: %s", h.CanonicalizedJSONString(resp.Body))
	return token
}
