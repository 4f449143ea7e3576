package servicedef

// Default routes. Deployments that mount the API elsewhere override these in the config file.
const (
	DefaultRegisterPath = "/register"
	DefaultLoginPath    = "/login"
	DefaultPostsPath    = "/posts"

	// DefaultProtectedPrefix is the json-server-auth guard prefix under which writes to the posts
	// collection require a bearer token, as in "/664/posts".
	DefaultProtectedPrefix = "/664"
)

// Query parameters understood by GET on the posts collection.
const (
	QuerySort  = "_sort"
	QueryOrder = "_order"
	QueryLimit = "_limit"
	QueryID    = "id"

	OrderAscending  = "asc"
	OrderDescending = "desc"
)

// Capabilities that a deployment may declare. Tests that rely on one are skipped if it is absent.
const (
	CapabilityPagination      = "pagination"
	CapabilityProtectedRoutes = "protected-routes"
	CapabilityAuth            = "auth"
)

// AllCapabilities returns every capability the test suite knows about.
func AllCapabilities() []string {
	return []string{CapabilityPagination, CapabilityProtectedRoutes, CapabilityAuth}
}
