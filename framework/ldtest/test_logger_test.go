package ldtest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/launchdarkly/posts-api-contract-tests/framework"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
}

func TestConsoleTestLogger(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	var debugOutput framework.CapturingLogger
	debugOutput.Printf("GET /posts/1")

	c := ConsoleTestLogger{DebugOutputOnFailure: true, Output: &buf}
	c.TestStarted(TestID{"update", "non-existent post"})
	c.TestError(TestID{"update", "non-existent post"}, errors.New("expected 404\ngot 200"))
	c.TestFinished(TestID{"update", "non-existent post"},
		TestResult{Errors: []error{errors.New("x")}}, debugOutput.Output())
	c.TestSkipped(TestID{"auth"}, "service does not have capability")

	out := buf.String()
	assert.Contains(t, out, "[update/non-existent post]\n")
	assert.Contains(t, out, "  expected 404\n  got 200\n")
	assert.Contains(t, out, "  FAILED: update/non-existent post\n")
	assert.Contains(t, out, "    DEBUG [")
	assert.Contains(t, out, "] GET /posts/1")
	assert.Contains(t, out, "  SKIPPED: auth (service does not have capability)\n")
}

func TestConsoleTestLoggerHidesDebugOutputOnSuccessByDefault(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	var debugOutput framework.CapturingLogger
	debugOutput.Printf("should not appear")

	c := ConsoleTestLogger{DebugOutputOnFailure: true, Output: &buf}
	c.TestFinished(TestID{"list"}, TestResult{}, debugOutput.Output())
	assert.Equal(t, "", buf.String())

	c.DebugOutputOnSuccess = true
	c.TestFinished(TestID{"list"}, TestResult{}, debugOutput.Output())
	assert.Contains(t, buf.String(), "should not appear")
}

func TestPrintResults(t *testing.T) {
	withoutColor(t)

	var ok bytes.Buffer
	PrintResults(&ok, Results{Tests: []TestResult{{TestID: TestID{"a"}}}})
	assert.Equal(t, "All tests passed (1)\n", ok.String())

	var failed bytes.Buffer
	PrintResults(&failed, Results{
		Failures:            []TestResult{{TestID: TestID{"delete", "lifecycle"}}},
		NonCriticalFailures: []TestResult{{TestID: TestID{"list"}, Explanation: "flaky"}},
	})
	assert.Equal(t,
		"NON-CRITICAL FAILURES (1):\n  * list (flaky)\nFAILED TESTS (1):\n  * delete/lifecycle\n",
		failed.String())
}

type endLogRecorder struct {
	recordingTestLogger
	err    error
	called bool
}

func (e *endLogRecorder) EndLog(Results) error {
	e.called = true
	return e.err
}

func TestMultiTestLogger(t *testing.T) {
	l1, l2 := &endLogRecorder{err: errors.New("disk full")}, &endLogRecorder{}
	m := &MultiTestLogger{Loggers: []TestLogger{l1, l2}}

	m.TestStarted(TestID{"a"})
	m.TestError(TestID{"a"}, errors.New("bad"))
	m.TestSkipped(TestID{"b"}, "why")
	m.TestFinished(TestID{"a"}, TestResult{}, nil)

	for _, l := range []*endLogRecorder{l1, l2} {
		assert.Equal(t, []string{"a"}, l.started)
		assert.Equal(t, []string{"bad"}, l.errors["a"])
		assert.Equal(t, []string{"why"}, l.skipped["b"])
		assert.Contains(t, l.output, "a")
	}

	assert.EqualError(t, m.EndLog(Results{}), "disk full")
	assert.True(t, l2.called)
}
