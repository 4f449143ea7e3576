package posttests

import (
	"fmt"
	"strconv"

	"github.com/launchdarkly/posts-api-contract-tests/config"
	"github.com/launchdarkly/posts-api-contract-tests/framework"
	"github.com/launchdarkly/posts-api-contract-tests/framework/harness"
	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// PostsClient has one method for each operation of the posts API. Each method performs exactly
// one HTTP round trip and returns the response, with no retries.
//
// Methods that are expected to succeed in normal use (Register, Login, ListPosts, CreatePost,
// CreateProtectedPost) fail and terminate the current test if the status is not 2xx. The
// by-id methods return any status to the caller, since tests use them to check for 404s. Either
// default can be overridden by passing harness.FailOnStatusCode.
//
// A transport error always fails and terminates the current test.
type PostsClient struct {
	harness *harness.TestHarness
	routes  config.Routes
}

func newPostsClient(h *harness.TestHarness, routes config.Routes) *PostsClient {
	return &PostsClient{harness: h, routes: routes}
}

// NewPostsClient returns a client for the service that the current test run is using.
func NewPostsClient(t *ldtest.T) *PostsClient {
	c := requireContext(t)
	return newPostsClient(c.harness, c.routes)
}

// Register creates a user account. The response body normally has the properties "accessToken"
// and "user".
func (c *PostsClient) Register(
	t *ldtest.T,
	creds servicedef.Credentials,
	options ...harness.RequestOption,
) harness.Response {
	t.Helper()
	resp, err := c.register(creds, t.DebugLogger(), options...)
	require.NoError(t, err)
	return resp
}

func (c *PostsClient) register(
	creds servicedef.Credentials,
	logger framework.Logger,
	options ...harness.RequestOption,
) (harness.Response, error) {
	logger.Printf("Registering user %s", creds.Email)
	return c.send(logger, "POST", c.routes.Register, creds, true, options)
}

// Login exchanges credentials for a new access token.
func (c *PostsClient) Login(
	t *ldtest.T,
	creds servicedef.Credentials,
	options ...harness.RequestOption,
) harness.Response {
	t.Helper()
	t.Debug("Logging in user %s", creds.Email)
	return c.do(t, "POST", c.routes.Login, creds, true, options)
}

// ListPosts gets the posts collection. Use harness.WithQuery to sort, limit or filter it.
func (c *PostsClient) ListPosts(t *ldtest.T, options ...harness.RequestOption) harness.Response {
	t.Helper()
	t.Debug("Getting posts")
	return c.do(t, "GET", c.routes.Posts, nil, true, options)
}

// GetPostByID gets a single post.
func (c *PostsClient) GetPostByID(t *ldtest.T, id int, options ...harness.RequestOption) harness.Response {
	t.Helper()
	t.Debug("Getting post %d", id)
	return c.do(t, "GET", c.postPath(id), nil, false, options)
}

// CreatePost adds a post to the unguarded collection. The body is normally a servicedef.Post, but
// may be a pre-serialized string or []byte, in which case the caller should also set a
// Content-Type header.
func (c *PostsClient) CreatePost(t *ldtest.T, body interface{}, options ...harness.RequestOption) harness.Response {
	t.Helper()
	t.Debug("Creating post %s", describePostBody(body))
	return c.do(t, "POST", c.routes.Posts, body, true, options)
}

// CreateProtectedPost is the same as CreatePost, but uses the route that requires an access
// token. Use harness.WithBearerToken to supply one.
func (c *PostsClient) CreateProtectedPost(
	t *ldtest.T,
	body interface{},
	options ...harness.RequestOption,
) harness.Response {
	t.Helper()
	t.Debug("Creating post %s on %s", describePostBody(body), c.routes.ProtectedPosts())
	return c.do(t, "POST", c.routes.ProtectedPosts(), body, true, options)
}

// UpdatePostByID changes some or all properties of an existing post.
func (c *PostsClient) UpdatePostByID(
	t *ldtest.T,
	id int,
	body interface{},
	options ...harness.RequestOption,
) harness.Response {
	t.Helper()
	t.Debug("Updating post %d", id)
	return c.do(t, "PATCH", c.postPath(id), body, false, options)
}

// DeletePostByID deletes a post.
func (c *PostsClient) DeletePostByID(t *ldtest.T, id int, options ...harness.RequestOption) harness.Response {
	t.Helper()
	t.Debug("Deleting post %d", id)
	return c.do(t, "DELETE", c.postPath(id), nil, false, options)
}

func (c *PostsClient) postPath(id int) string {
	return c.routes.Posts + "/" + strconv.Itoa(id)
}

func (c *PostsClient) do(
	t *ldtest.T,
	method, path string,
	body interface{},
	failOnStatusCode bool,
	options []harness.RequestOption,
) harness.Response {
	t.Helper()
	resp, err := c.send(t.DebugLogger(), method, path, body, failOnStatusCode, options)
	require.NoError(t, err)
	return resp
}

// send applies the method's default for FailOnStatusCode before the caller's options, so that the
// caller can override it.
func (c *PostsClient) send(
	logger framework.Logger,
	method, path string,
	body interface{},
	failOnStatusCode bool,
	options []harness.RequestOption,
) (harness.Response, error) {
	allOptions := append([]harness.RequestOption{harness.FailOnStatusCode(failOnStatusCode)}, options...)
	req, err := harness.NewRequest(method, path, body, allOptions...)
	if err != nil {
		return harness.Response{}, err
	}
	return c.harness.Do(req, logger)
}

func describePostBody(body interface{}) string {
	switch b := body.(type) {
	case servicedef.Post:
		return strconv.Quote(b.Title)
	case string:
		return fmt.Sprintf("from JSON %s", b)
	case []byte:
		return fmt.Sprintf("from JSON %s", string(b))
	default:
		return fmt.Sprintf("%v", body)
	}
}
