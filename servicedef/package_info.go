// Package servicedef contains definitions for the REST protocol of the posts service: the JSON
// shapes of posts, credentials, and auth responses, and the default routes and query parameters.
//
// The package is used by the test suite and by the built-in mock service, but can also be
// imported by any Go code that talks to a compatible service.
package servicedef
