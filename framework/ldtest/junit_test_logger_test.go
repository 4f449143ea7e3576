package ldtest

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJUnitTestLoggerWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junit.xml")
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("auth"))

	logger := NewJUnitTestLogger(path, "posts API contract tests",
		map[string]string{"service.url": "http://localhost:3000"}, filters)

	results := Run(TestConfiguration{TestLogger: logger, Filter: filters}, func(ldt *T) {
		ldt.Run("list", func(ldt *T) {
			ldt.Run("all posts", func(ldt *T) {})
			ldt.Run("by ids", func(ldt *T) {
				ldt.Debug("GET /posts?id=55&id=60")
				ldt.Errorf("expected [55 60]")
			})
		})
		ldt.Run("delete", func(ldt *T) {
			ldt.Run("not found", func(ldt *T) { ldt.SkipWithReason("no") })
		})
		ldt.Run("auth", func(ldt *T) {})
	})
	require.NoError(t, logger.EndLog(results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc jUnitXMLDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 3)

	list := doc.Suites[0]
	assert.Equal(t, "posts API contract tests: list", list.Name)
	assert.Equal(t, 3, list.Tests)
	assert.Equal(t, 1, list.Failures)
	require.Len(t, list.TestCases, 3)
	assert.Equal(t, "list/all posts", list.TestCases[1].Name)
	assert.Nil(t, list.TestCases[1].Failure)
	failure := list.TestCases[2].Failure
	require.NotNil(t, failure)
	assert.Equal(t, "expected [55 60]", failure.Message)
	assert.Contains(t, failure.Contents, "GET /posts?id=55&id=60")

	deleteSuite := doc.Suites[1]
	assert.Equal(t, 1, deleteSuite.Skipped)
	require.NotNil(t, deleteSuite.TestCases[1].SkipMessage)
	assert.Equal(t, "no", deleteSuite.TestCases[1].SkipMessage.Message)

	auth := doc.Suites[2]
	require.Len(t, auth.TestCases, 1)
	require.NotNil(t, auth.TestCases[0].SkipMessage)
	assert.Equal(t, "excluded by filter parameters", auth.TestCases[0].SkipMessage.Message)

	props := map[string]string{}
	for _, p := range list.Properties {
		props[p.Name] = p.Value
	}
	assert.Equal(t, "http://localhost:3000", props["service.url"])
	assert.Equal(t, `"auth"`, props["tests.filter.mustNotMatch"])
	assert.NotEmpty(t, props["tests.run.id"])
}

func TestJUnitFailureMessageIncludesStacktrace(t *testing.T) {
	msg := jUnitFailureMessage([]error{
		errors.New("first"),
		ErrorWithStacktrace{
			Message:    "second",
			Stacktrace: []StacktraceInfo{{FileName: "f.go", Package: "p", Function: "F", Line: 9}},
		},
	})
	assert.Equal(t, "first\nsecond\n  Stacktrace:\n    p.F (f.go:9)", msg)
}
