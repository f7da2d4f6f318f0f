package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists route patterns that should bypass authentication.
// These are infrastructure endpoints (health checks) and the anonymous
// browsing endpoints: anyone may look at a clinic's open slots or preview
// a booking without credentials.
var publicPaths = map[string]bool{
	"/health":                          true,
	"/health/db":                       true,
	"/api/v1/clinics/:id/slots":        true,
	"/api/v1/clinics/:id/book/preview": true,
}

// AuthSkipper returns true for requests whose route should skip
// authentication. Pass this function as the Skipper on JWTConfig so that
// health checks and public browsing stay reachable without a bearer token.
// A valid token presented on a skipped route still attaches the caller's
// identity to the request.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given route pattern bypasses auth.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
