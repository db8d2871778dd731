package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/model"
	"github.com/iliyamo/media-review-api/internal/repository"
)

// CategoryHandler serves /v1/categories: list for anyone, create and
// delete for admins (enforced by the route's policies).
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(categories *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type slugWriteReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (r *slugWriteReq) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(strings.ToLower(r.Slug))
	if r.Name == "" || r.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and slug are required")
	}
	return nil
}

// List handles GET /v1/categories?search=<name substring>.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Categories.List(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req slugWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return err
	}
	cat := model.Category{Name: req.Name, Slug: req.Slug}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Categories.Create(ctx, &cat); err != nil {
		if err == repository.ErrSlugExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create category"})
	}
	return c.JSON(http.StatusCreated, cat)
}

// Delete handles DELETE /v1/categories/:slug.
func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Categories.DeleteBySlug(ctx, c.Param("slug")); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
