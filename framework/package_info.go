// Package framework contains the low-level pieces of the contract test runner that do not know
// anything about the API being tested. The base package holds shared types such as Logger and
// Capabilities; the runner itself is in ldtest, and HTTP access to the service under test is in
// harness.
//
// The general model is:
//
// 1. The test harness talks to a single service under test over HTTP. It verifies on startup
// that the service is answering, and after that every request is a single round trip with no
// retries.
//
// 2. There is a general notion of a test scope which is similar to Go's testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for building the
// requests, deciding which statuses and payloads are acceptable, and providing test APIs on top
// of the test scope.
package framework
