package main

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdarkly/posts-api-contract-tests/framework/ldtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestRunAgainstMockService(t *testing.T) {
	dir := t.TempDir()
	params := commandParams{
		mock:           true,
		mockPort:       freePort(t),
		jUnitFile:      filepath.Join(dir, "junit.xml"),
		recordFailures: filepath.Join(dir, "failures.txt"),
	}

	results, err := run(params)
	require.NoError(t, err)
	assert.True(t, results.OK())
	assert.NotEmpty(t, results.Tests)

	junit, err := os.ReadFile(params.jUnitFile)
	require.NoError(t, err)
	assert.Contains(t, string(junit), "create update delete lifecycle")

	failures, err := os.ReadFile(params.recordFailures)
	require.NoError(t, err)
	assert.Equal(t, "", string(failures))
}

func TestRunWithSuppressionFile(t *testing.T) {
	dir := t.TempDir()
	skipFile := filepath.Join(dir, "skip.txt")
	require.NoError(t, os.WriteFile(skipFile, []byte("list\n\ncreate/JSON string body\nupdate\ndelete\nauth\n"), 0600))

	results, err := run(commandParams{mock: true, mockPort: freePort(t), skipFile: skipFile})
	require.NoError(t, err)
	assert.True(t, results.OK())

	var ran []string
	for _, r := range results.Tests {
		if len(r.TestID) > 0 {
			ran = append(ran, r.TestID.String())
		}
	}
	assert.ElementsMatch(t, []string{
		"create",
		"create/protected route without access token",
		"create/protected route with access token",
		"create/created post matches submitted fields",
	}, ran)
}

func TestRunWithConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(strings.Join([]string{
		"routes:",
		"  posts: /api/posts",
		"capabilities: [auth]",
		"mock:",
		"  seedPosts: 20",
	}, "\n")), 0600))

	results, err := run(commandParams{configFile: configFile, mock: true, mockPort: freePort(t)})
	require.NoError(t, err)
	assert.True(t, results.OK())
}

func TestRunFailsForBadConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "service.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"baseUrl": "nope"}`), 0600))

	_, err := run(commandParams{configFile: configFile})
	assert.Error(t, err)
}

func TestRunFailsForMissingSuppressionFile(t *testing.T) {
	_, err := run(commandParams{mock: true, skipFile: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}

func TestNamedTestIDs(t *testing.T) {
	ids := namedTestIDs([]ldtest.TestID{nil, {"a", "b"}, {}})
	assert.Equal(t, []ldtest.TestID{{"a", "b"}}, ids)
}
