// Package posttests contains the contract tests for the posts API.
//
// Tests in this package use other packages as follows:
//
// harness: one-round-trip HTTP requests to the service under test
//
// ldtest: the basic test scope framework
//
// servicedef: wire types and route constants of the posts API
package posttests
