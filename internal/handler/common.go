// Package handler contains the HTTP handlers. Request/response DTOs live
// next to the handler that uses them; object-level permission checks run
// here, after the target row is resolved.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/middleware"
)

// callerRequest builds the permission decision context for the current
// request.
func callerRequest(c echo.Context) auth.Request {
	return auth.Request{Caller: middleware.CallerFrom(c), Method: c.Request().Method}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
