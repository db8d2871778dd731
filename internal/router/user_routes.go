package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/handler"
	"github.com/iliyamo/media-review-api/internal/middleware"
	"github.com/iliyamo/media-review-api/internal/model"
)

// RegisterUsers registers the account management endpoints under
// /v1/users. The whole group demands a valid token plus the admin role;
// /me is the one exception every authenticated caller may use, so it gets
// its own group with the weaker policy. /me is registered before
// /:username so the literal segment wins the match.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	me := e.Group("/v1/users/me",
		middleware.JWTAuth(jwtSecret),
		middleware.RequirePolicy(auth.Authenticated),
	)
	me.GET("", h.Me)
	me.PATCH("", h.PatchMe)

	g := e.Group("/v1/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequirePolicy(auth.Authenticated, auth.RoleAtLeast(model.RoleAdmin)),
	)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:username", h.Get)
	g.PATCH("/:username", h.Patch)
	g.DELETE("/:username", h.Delete)
}
