package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/handler"
	"github.com/iliyamo/media-review-api/internal/middleware"
)

// RegisterContent registers reviews and their comments, nested under the
// owning title. The group policy only requires authentication for writes;
// the finer owner-or-moderator rule needs the target row's author and is
// enforced inside the handlers.
func RegisterContent(e *echo.Echo, reviews *handler.ReviewHandler, comments *handler.CommentHandler, jwtSecret string) {
	g := e.Group("/v1/titles/:title_id/reviews",
		middleware.OptionalJWTAuth(jwtSecret),
		middleware.RequirePolicy(auth.AuthenticatedOrReadOnly),
	)

	// Echo requires one param name per path position, so the review id is
	// :review_id on the detail routes too, matching the comments subtree.
	g.GET("", reviews.List)
	g.POST("", reviews.Create)
	g.GET("/:review_id", reviews.Get)
	g.PATCH("/:review_id", reviews.Patch)
	g.DELETE("/:review_id", reviews.Delete)

	g.GET("/:review_id/comments", comments.List)
	g.POST("/:review_id/comments", comments.Create)
	g.GET("/:review_id/comments/:id", comments.Get)
	g.PATCH("/:review_id/comments/:id", comments.Patch)
	g.DELETE("/:review_id/comments/:id", comments.Delete)
}
