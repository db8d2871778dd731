// Package router wires handlers to routes. Each resource family gets its
// own Register function so main can see the full HTTP surface in one
// place; middleware chains are attached per group, never globally.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/media-review-api/internal/config"
	"github.com/iliyamo/media-review-api/internal/handler"
	"github.com/iliyamo/media-review-api/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or storage.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the two-step email login flow under /v1/auth.
// Both endpoints are unauthenticated and rate-limited per client IP: each
// hit can insert a user row and queue an outbound mail, so the bucket in
// front is what keeps a scripted caller from flooding the mail queue.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.POST("/email", a.IssueCode)
	g.POST("/token", a.IssueToken)
}
