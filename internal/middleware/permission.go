package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
)

// RequirePolicy enforces resource-level policies. Every attached policy
// must allow the request (logical AND); the chain runs before the handler
// touches storage, so a denied caller never triggers an object lookup.
// Denials map to 401 for anonymous callers and 403 for authenticated ones.
func RequirePolicy(policies ...auth.Policy) echo.MiddlewareFunc {
	chain := auth.AllOf(policies...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := auth.Request{Caller: CallerFrom(c), Method: c.Request().Method}
			if !chain(req) {
				if !req.Caller.Authenticated {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
