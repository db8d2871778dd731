package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/middleware"
	"github.com/iliyamo/media-review-api/internal/model"
	"github.com/iliyamo/media-review-api/internal/repository"
)

// CommentHandler serves /v1/titles/:title_id/reviews/:review_id/comments.
// Reviews.Get scoped by title is what ties the whole nested path together:
// a review reached through the wrong title is a 404, not a leak.
type CommentHandler struct {
	Reviews  *repository.ReviewRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(reviews *repository.ReviewRepo, comments *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Reviews: reviews, Comments: comments}
}

type commentWriteReq struct {
	Text *string `json:"text"`
}

// reviewID resolves the nested path and confirms the review belongs to the
// addressed title.
func (h *CommentHandler) reviewID(c echo.Context) (uint64, error) {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid title id")
	}
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Reviews.Get(ctx, titleID, reviewID); err != nil {
		if err == repository.ErrReviewNotFound {
			return 0, echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return 0, echo.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return reviewID, nil
}

// List handles GET .../comments.
func (h *CommentHandler) List(c echo.Context) error {
	reviewID, err := h.reviewID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Comments.ListByReview(ctx, reviewID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST .../comments.
func (h *CommentHandler) Create(c echo.Context) error {
	reviewID, err := h.reviewID(c)
	if err != nil {
		return err
	}
	var req commentWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	cm := model.Comment{
		ReviewID: reviewID,
		AuthorID: middleware.CallerFrom(c).ID,
		Text:     strings.TrimSpace(*req.Text),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create comment"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// Get handles GET .../comments/:id.
func (h *CommentHandler) Get(c echo.Context) error {
	reviewID, err := h.reviewID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cm, err := h.Comments.Get(ctx, reviewID, id)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cm)
}

// Patch handles PATCH .../comments/:id. Author-only, same rule as reviews.
func (h *CommentHandler) Patch(c echo.Context) error {
	reviewID, err := h.reviewID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	var req commentWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	cm, err := h.Comments.Get(ctx, reviewID, id)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.OwnerOrModeratorDelete(callerRequest(c), cm.AuthorID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	cm.Text = strings.TrimSpace(*req.Text)
	if err := h.Comments.Update(ctx, cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cm)
}

// Delete handles DELETE .../comments/:id.
func (h *CommentHandler) Delete(c echo.Context) error {
	reviewID, err := h.reviewID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cm, err := h.Comments.Get(ctx, reviewID, id)
	if err != nil {
		if err == repository.ErrCommentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.OwnerOrModeratorDelete(callerRequest(c), cm.AuthorID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Comments.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
