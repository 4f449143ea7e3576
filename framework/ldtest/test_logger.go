package ldtest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/launchdarkly/posts-api-contract-tests/framework"

	"github.com/fatih/color"
)

var consoleTestErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleTestFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleTestSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)               //nolint:gochecknoglobals
var consoleNonCriticalColor = color.New(color.FgCyan)              //nolint:gochecknoglobals
var allTestsPassedColor = color.New(color.FgGreen)                 //nolint:gochecknoglobals

// TestLogger receives status information about each test as the run progresses.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput)
	TestSkipped(id TestID, reason string)
	EndLog(results Results) error
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(TestID)                                        {}
func (nullTestLogger) TestError(TestID, error)                                   {}
func (nullTestLogger) TestFinished(TestID, TestResult, framework.CapturedOutput) {}
func (nullTestLogger) TestSkipped(TestID, string)                                {}
func (nullTestLogger) EndLog(Results) error                                      { return nil }

// ConsoleTestLogger prints test progress to standard output.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	// Output defaults to os.Stdout.
	Output io.Writer
}

func (c ConsoleTestLogger) out() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func (c ConsoleTestLogger) TestStarted(id TestID) {
	fmt.Fprintf(c.out(), "[%s]\n", id)
}

func (c ConsoleTestLogger) TestError(id TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		_, _ = consoleTestErrorColor.Fprintf(c.out(), "  %s\n", line)
	}
	var es ErrorWithStacktrace
	if errors.As(err, &es) && len(es.Stacktrace) > 0 {
		_, _ = consoleTestErrorColor.Fprintf(c.out(), "    at %s\n", es.Stacktrace[0])
	}
}

func (c ConsoleTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	failed := len(result.Errors) > 0
	if failed {
		if result.NonCritical {
			_, _ = consoleNonCriticalColor.Fprintf(c.out(), "  FAILED (non-critical): %s (%s)\n", id, result.Explanation)
		} else {
			_, _ = consoleTestFailedColor.Fprintf(c.out(), "  FAILED: %s\n", id)
		}
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Fprintln(c.out(), debugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	if reason == "" {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "  SKIPPED: %s\n", id)
	} else {
		_, _ = consoleTestSkippedColor.Fprintf(c.out(), "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// EndLog prints the summary of the run.
func (c ConsoleTestLogger) EndLog(results Results) error {
	PrintResults(c.out(), results)
	return nil
}

// MultiTestLogger sends every event to each of its Loggers in turn.
type MultiTestLogger struct {
	Loggers []TestLogger
}

func (m *MultiTestLogger) TestStarted(id TestID) {
	for _, l := range m.Loggers {
		l.TestStarted(id)
	}
}

func (m *MultiTestLogger) TestError(id TestID, err error) {
	for _, l := range m.Loggers {
		l.TestError(id, err)
	}
}

func (m *MultiTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	for _, l := range m.Loggers {
		l.TestFinished(id, result, debugOutput)
	}
}

func (m *MultiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m.Loggers {
		l.TestSkipped(id, reason)
	}
}

// EndLog calls EndLog on every logger, even if one fails, and returns the first error.
func (m *MultiTestLogger) EndLog(results Results) error {
	var firstErr error
	for _, l := range m.Loggers {
		if err := l.EndLog(results); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PrintResults writes a summary of passed, failed, and non-critical tests.
func PrintResults(out io.Writer, results Results) {
	if len(results.NonCriticalFailures) > 0 {
		_, _ = consoleNonCriticalColor.Fprintf(out, "NON-CRITICAL FAILURES (%d):\n", len(results.NonCriticalFailures))
		for _, f := range results.NonCriticalFailures {
			_, _ = consoleNonCriticalColor.Fprintf(out, "  * %s (%s)\n", f.TestID, f.Explanation)
		}
	}
	if results.OK() {
		_, _ = allTestsPassedColor.Fprintf(out, "All tests passed (%d)\n", len(results.Tests))
		return
	}
	_, _ = consoleTestFailedColor.Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		_, _ = consoleTestFailedColor.Fprintf(out, "  * %s\n", f.TestID)
	}
}
