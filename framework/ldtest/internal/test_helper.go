// Package internal contains helpers for the ldtest unit tests that must live outside of the
// ldtest package, so that stacktrace filtering can be observed.
package internal

// RunAction calls action. It is exported only for ldtest's own tests.
func RunAction(action func()) {
	action()
}
