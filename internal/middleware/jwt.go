// Package middleware contains reusable HTTP middleware: bearer-token
// parsing, policy enforcement, response caching and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
)

// callerKey is the echo context key under which the resolved auth.Caller
// is stored for handlers and the policy middleware.
const callerKey = "caller"

// CallerFrom returns the caller stored by JWTAuth/OptionalJWTAuth. The
// zero Caller (anonymous) is returned when nothing was stored.
func CallerFrom(c echo.Context) auth.Caller {
	if v, ok := c.Get(callerKey).(auth.Caller); ok {
		return v
	}
	return auth.Caller{}
}

// bearerToken extracts the raw token from the Authorization header; ok is
// false when the header is absent or not bearer-shaped.
func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

// JWTAuth returns middleware that requires a valid access token and stores
// the resolved caller in the context. Missing or invalid tokens end the
// request with 401 before any handler runs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := auth.ParseAccessToken(secret, raw)
			if err != nil {
				// The three parse failures stay distinguishable in logs but
				// not to the client.
				c.Logger().Debugf("token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(callerKey, auth.CallerFromClaims(claims))
			return next(c)
		}
	}
}

// OptionalJWTAuth resolves a caller when a valid token is present and
// leaves the request anonymous otherwise. Routes that allow public reads
// but gate mutation on policies use this instead of JWTAuth: a garbage
// token on a public GET is ignored rather than fatal.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := auth.ParseAccessToken(secret, raw); err == nil {
					c.Set(callerKey, auth.CallerFromClaims(claims))
				} else {
					c.Logger().Debugf("optional token ignored: %v", err)
				}
			}
			return next(c)
		}
	}
}
