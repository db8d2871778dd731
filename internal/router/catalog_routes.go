package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/config"
	"github.com/iliyamo/media-review-api/internal/handler"
	"github.com/iliyamo/media-review-api/internal/middleware"
)

// RegisterCatalog registers categories, genres and titles. Reads are
// public, writes need the admin role; the token middleware is optional so
// anonymous browsing works while admin tokens still resolve. List and
// detail GETs sit behind the Redis response cache, which also bounds how
// often the rating aggregation query runs for hot titles.
func RegisterCatalog(e *echo.Echo, cats *handler.CategoryHandler, gens *handler.GenreHandler, titles *handler.TitleHandler, jwtSecret string, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/v1",
		middleware.OptionalJWTAuth(jwtSecret),
		middleware.RequirePolicy(auth.AdminOrReadOnly),
	)

	g.GET("/categories", cats.List, cache)
	g.POST("/categories", cats.Create)
	g.DELETE("/categories/:slug", cats.Delete)

	g.GET("/genres", gens.List, cache)
	g.POST("/genres", gens.Create)
	g.DELETE("/genres/:slug", gens.Delete)

	g.GET("/titles", titles.List, cache)
	g.POST("/titles", titles.Create)
	g.GET("/titles/:id", titles.Get, cache)
	g.PATCH("/titles/:id", titles.Patch)
	g.DELETE("/titles/:id", titles.Delete)
}
