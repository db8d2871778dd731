package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/media-review-api/internal/model"
)

// GenreRepo persists genres; same list/create/delete shape as categories.
type GenreRepo struct{ DB *sql.DB }

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{DB: db} }

// Create inserts a genre and fills in its generated ID.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO genres (name, slug) VALUES (?,?)", g.Name, g.Slug)
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
	g.ID = uint64(id)
	return nil
}

// GetBySlug fetches a genre by its slug.
func (r *GenreRepo) GetBySlug(ctx context.Context, slug string) (model.Genre, error) {
	var g model.Genre
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, slug FROM genres WHERE slug=? LIMIT 1",
		strings.TrimSpace(slug)).Scan(&g.ID, &g.Name, &g.Slug)
	if err == sql.ErrNoRows {
		return model.Genre{}, ErrGenreNotFound
	}
	return g, err
}

// List returns genres, optionally filtered by a substring of name or slug.
func (r *GenreRepo) List(ctx context.Context, search string) ([]model.Genre, error) {
	q := "SELECT id, name, slug FROM genres"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE name LIKE ? OR slug LIKE ?"
		args = append(args, "%"+s+"%", "%"+s+"%")
	}
	q += " ORDER BY slug"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteBySlug removes a genre; join rows in title_genres cascade away.
func (r *GenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM genres WHERE slug=?", strings.TrimSpace(slug))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGenreNotFound
	}
	return nil
}
