package ldtest

import (
	"fmt"
	"strings"
)

// Results is the outcome of an entire test run.
type Results struct {
	// Tests contains every test scope that ran, in the order in which they finished.
	Tests []TestResult

	// Failures contains the failed tests that were not marked as non-critical.
	Failures []TestResult

	// NonCriticalFailures contains the failed tests that were marked with T.NonCritical.
	NonCriticalFailures []TestResult
}

// TestResult is the outcome of a single test scope.
type TestResult struct {
	TestID      TestID
	Errors      []error
	NonCritical bool
	Explanation string
}

// OK returns true if there were no critical failures.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// FailedIDs returns the IDs of all critical failures.
func (r Results) FailedIDs() []TestID {
	ret := make([]TestID, 0, len(r.Failures))
	for _, f := range r.Failures {
		ret = append(ret, f.TestID)
	}
	return ret
}

// TestID is the path of names leading to a test scope, starting from the top level.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

// Plus returns a new TestID with the name appended, without modifying the original.
func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

// TestFailure associates an error with the test that produced it.
type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

func (f TestFailure) Unwrap() error { return f.Err }
