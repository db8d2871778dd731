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

// ReviewHandler serves /v1/titles/:title_id/reviews. The route group's
// policy already guarantees mutating callers are authenticated; the
// owner-or-moderator-delete rule is applied here once the target review
// is loaded.
type ReviewHandler struct {
	Titles  *repository.TitleRepo
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(titles *repository.TitleRepo, reviews *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Titles: titles, Reviews: reviews}
}

type reviewWriteReq struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func validScore(s int) bool { return s >= 1 && s <= 10 }

// List handles GET .../reviews.
func (h *ReviewHandler) List(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Titles.Exists(ctx, titleID); err != nil {
		if err == repository.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Reviews.ListByTitle(ctx, titleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST .../reviews. One review per author per title; the
// duplicate answer is a 400 with a descriptive message rather than a
// conflict, matching the validation-style contract of this endpoint.
func (h *ReviewHandler) Create(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
	}
	var req reviewWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Score == nil || !validScore(*req.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 10"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Titles.Exists(ctx, titleID); err != nil {
		if err == repository.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	rv := model.Review{
		TitleID:  titleID,
		AuthorID: middleware.CallerFrom(c).ID,
		Score:    *req.Score,
	}
	if req.Text != nil {
		rv.Text = strings.TrimSpace(*req.Text)
	}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		if err == repository.ErrDuplicateReview {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you have already reviewed this title"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
	}
	return c.JSON(http.StatusCreated, rv)
}

// Get handles GET .../reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
	}
	id, err := pathID(c, "review_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rv, err := h.Reviews.Get(ctx, titleID, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rv)
}

// Patch handles PATCH .../reviews/:id. Only the author passes the
// object-level check for an edit; moderators are deliberately limited to
// deletion.
func (h *ReviewHandler) Patch(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
	}
	id, err := pathID(c, "review_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Score != nil && !validScore(*req.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 10"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	rv, err := h.Reviews.Get(ctx, titleID, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.OwnerOrModeratorDelete(callerRequest(c), rv.AuthorID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.Text != nil {
		rv.Text = strings.TrimSpace(*req.Text)
	}
	if req.Score != nil {
		rv.Score = *req.Score
	}
	if err := h.Reviews.Update(ctx, rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Reviews.Get(ctx, titleID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load review"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE .../reviews/:id. Owners and moderators-and-up may
// delete.
func (h *ReviewHandler) Delete(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid title id"})
	}
	id, err := pathID(c, "review_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rv, err := h.Reviews.Get(ctx, titleID, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.OwnerOrModeratorDelete(callerRequest(c), rv.AuthorID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Reviews.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
