package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// TestContext is a minimal interface for types like *testing.T and *ldtest.T representing a
// test that can fail. Functions can use this to avoid specific dependencies on those packages.
type TestContext interface {
	Errorf(msgFormat string, msgArgs ...interface{})
	FailNow()
}

// TestRecorder is a TestContext that only records what happened, for testing test helpers.
type TestRecorder struct {
	Errors     []string
	Terminated bool

	// PanicOnTerminate makes FailNow panic with the recorder itself, the way ldtest.T does.
	PanicOnTerminate bool
}

func (r *TestRecorder) Errorf(msgFormat string, msgArgs ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(msgFormat, msgArgs...))
}

func (r *TestRecorder) FailNow() {
	r.Terminated = true
	if r.PanicOnTerminate {
		panic(r)
	}
}

// Helper exists so that TestRecorder can stand in for contexts that call t.Helper().
func (r *TestRecorder) Helper() {}

// Err returns all recorded errors joined into one, or nil if there were none.
func (r *TestRecorder) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, ", "))
}
