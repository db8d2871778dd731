package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/media-review-api/internal/model"
)

// CategoryRepo persists catalog categories. The surface is deliberately
// list/create/delete only; categories are renamed by replacing them.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// Create inserts a category and fills in its generated ID.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?,?)", c.Name, c.Slug)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetBySlug fetches a category by its slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, slug FROM categories WHERE slug=? LIMIT 1",
		strings.TrimSpace(slug)).Scan(&c.ID, &c.Name, &c.Slug)
	if err == sql.ErrNoRows {
		return model.Category{}, ErrCategoryNotFound
	}
	return c, err
}

// List returns categories, optionally filtered by a name substring.
func (r *CategoryRepo) List(ctx context.Context, search string) ([]model.Category, error) {
	q := "SELECT id, name, slug FROM categories"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE name LIKE ?"
		args = append(args, "%"+s+"%")
	}
	q += " ORDER BY slug"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteBySlug removes a category. Titles keep existing with a NULL
// category thanks to the FK's ON DELETE SET NULL.
func (r *CategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM categories WHERE slug=?", strings.TrimSpace(slug))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
