// Package ldtest is a test runner that is similar to Go's testing package, but is run as
// regular application code rather than with "go test". It adds configuration, per-test debug
// logging, filtering by test path, and result reporting in console and JUnit formats.
//
// A failure inside one test scope, whether from T.FailNow, a require assertion, or an unexpected
// panic, ends that scope only; sibling scopes still run.
package ldtest
