package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/model"
	"github.com/iliyamo/media-review-api/internal/repository"
)

// TitleHandler serves /v1/titles. Reads are public and carry the derived
// rating; mutation is admin-only via the route policies.
type TitleHandler struct {
	Titles     *repository.TitleRepo
	Categories *repository.CategoryRepo
	Genres     *repository.GenreRepo
}

func NewTitleHandler(titles *repository.TitleRepo, categories *repository.CategoryRepo, genres *repository.GenreRepo) *TitleHandler {
	return &TitleHandler{Titles: titles, Categories: categories, Genres: genres}
}

// titleWriteReq carries title fields by slug references. Pointers make
// PATCH partial; Create demands name, year and category.
type titleWriteReq struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// minYear bounds the accepted release year from below; the upper bound is
// the current year.
const minYear = 1900

func validYear(y int) bool {
	return y >= minYear && y <= time.Now().UTC().Year()
}

// resolveRefs turns a category slug and genre slugs into IDs. Unknown
// slugs are a validation error, not a 404: the URL's target is the title,
// not the referenced category.
func (h *TitleHandler) resolveRefs(c echo.Context, categorySlug *string, genreSlugs *[]string) (*uint64, []uint64, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var categoryID *uint64
	if categorySlug != nil {
		cat, err := h.Categories.GetBySlug(ctx, *categorySlug)
		if err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "unknown category "+*categorySlug)
			}
			return nil, nil, err
		}
		categoryID = &cat.ID
	}
	var genreIDs []uint64
	if genreSlugs != nil {
		genreIDs = make([]uint64, 0, len(*genreSlugs))
		for _, slug := range *genreSlugs {
			g, err := h.Genres.GetBySlug(ctx, slug)
			if err != nil {
				if err == repository.ErrGenreNotFound {
					return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "unknown genre "+slug)
				}
				return nil, nil, err
			}
			genreIDs = append(genreIDs, g.ID)
		}
	}
	return categoryID, genreIDs, nil
}

// List handles GET /v1/titles with optional category, genre, name and
// year filters.
func (h *TitleHandler) List(c echo.Context) error {
	filter := repository.TitleFilter{
		CategorySlug: c.QueryParam("category"),
		GenreSlug:    c.QueryParam("genre"),
		Name:         c.QueryParam("name"),
	}
	if y := c.QueryParam("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year filter"})
		}
		filter.Year = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Titles.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/titles/:id.
func (h *TitleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Titles.Get(ctx, id)
	if err != nil {
		if err == repository.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /v1/titles.
func (h *TitleHandler) Create(c echo.Context) error {
	var req titleWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Year == nil || !validYear(*req.Year) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid year is required"})
	}
	if req.Category == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category is required"})
	}

	categoryID, genreIDs, err := h.resolveRefs(c, req.Category, req.Genre)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	t := model.Title{Name: strings.TrimSpace(*req.Name), Year: *req.Year}
	if req.Description != nil {
		t.Description = *req.Description
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Titles.Create(ctx, &t, categoryID, genreIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create title"})
	}
	created, err := h.Titles.Get(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load title"})
	}
	return c.JSON(http.StatusCreated, created)
}

// Patch handles PATCH /v1/titles/:id.
func (h *TitleHandler) Patch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req titleWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Year != nil && !validYear(*req.Year) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid year is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Titles.Get(ctx, id)
	if err != nil {
		if err == repository.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Year != nil {
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = *req.Description
	}

	// Keep the current category unless the request replaces it.
	var categorySlug *string
	if req.Category != nil {
		categorySlug = req.Category
	} else if t.Category != nil {
		categorySlug = &t.Category.Slug
	}
	categoryID, genreIDs, err := h.resolveRefs(c, categorySlug, req.Genre)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	// genreIDs stays nil when the request omits genre, leaving links as is.
	if err := h.Titles.Update(ctx, t, categoryID, genreIDs); err != nil {
		if err == repository.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Titles.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load title"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/titles/:id.
func (h *TitleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Titles.Delete(ctx, id); err != nil {
		if err == repository.ErrTitleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "title not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
