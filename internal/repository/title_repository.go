package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/media-review-api/internal/model"
)

// TitleRepo persists catalog titles and their genre links. The derived
// rating is computed inside the read queries (AVG over the reviews join)
// so it stays correct and cheap no matter how many reviews accumulate;
// nothing is ever written back.
type TitleRepo struct{ DB *sql.DB }

func NewTitleRepo(db *sql.DB) *TitleRepo { return &TitleRepo{DB: db} }

// TitleFilter narrows List. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

const titleSelect = `SELECT t.id, t.name, t.year, t.description, AVG(r.score),
       c.id, c.name, c.slug
FROM titles t
LEFT JOIN reviews r ON r.title_id = t.id
LEFT JOIN categories c ON c.id = t.category_id`

const titleGroup = " GROUP BY t.id, t.name, t.year, t.description, c.id, c.name, c.slug"

// scanTitle reads one joined row. A NULL AVG (no reviews) stays nil so the
// JSON layer reports null, never a synthetic zero.
func scanTitle(scan func(...any) error) (model.Title, error) {
	var t model.Title
	var rating sql.NullFloat64
	var catID sql.NullInt64
	var catName, catSlug sql.NullString
	if err := scan(&t.ID, &t.Name, &t.Year, &t.Description, &rating,
		&catID, &catName, &catSlug); err != nil {
		return model.Title{}, err
	}
	if rating.Valid {
		v := rating.Float64
		t.Rating = &v
	}
	if catID.Valid {
		t.Category = &model.Category{
			ID:   uint64(catID.Int64),
			Name: catName.String,
			Slug: catSlug.String,
		}
	}
	t.Genres = []model.Genre{}
	return t, nil
}

// Get fetches a single title with rating, category and genres resolved.
func (r *TitleRepo) Get(ctx context.Context, id uint64) (model.Title, error) {
	row := r.DB.QueryRowContext(ctx, titleSelect+" WHERE t.id=?"+titleGroup, id)
	t, err := scanTitle(row.Scan)
	if err == sql.ErrNoRows {
		return model.Title{}, ErrTitleNotFound
	}
	if err != nil {
		return model.Title{}, err
	}
	byID := map[uint64]*model.Title{t.ID: &t}
	if err := r.attachGenres(ctx, byID, []uint64{t.ID}); err != nil {
		return model.Title{}, err
	}
	return t, nil
}

// List returns titles matching f, each with rating, category and genres.
func (r *TitleRepo) List(ctx context.Context, f TitleFilter) ([]model.Title, error) {
	q := titleSelect
	var conds []string
	var args []any
	if s := strings.TrimSpace(f.Name); s != "" {
		conds = append(conds, "t.name LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if f.Year != 0 {
		conds = append(conds, "t.year = ?")
		args = append(args, f.Year)
	}
	if s := strings.TrimSpace(f.CategorySlug); s != "" {
		conds = append(conds, "c.slug = ?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(f.GenreSlug); s != "" {
		// EXISTS keeps the genre filter out of the aggregation join, so it
		// cannot skew the AVG.
		conds = append(conds, "EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id WHERE tg.title_id = t.id AND g.slug = ?)")
		args = append(args, s)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += titleGroup + " ORDER BY t.id"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Title
	var ids []uint64
	byID := map[uint64]*model.Title{}
	for rows.Next() {
		t, err := scanTitle(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	if err := r.attachGenres(ctx, byID, ids); err != nil {
		return nil, err
	}
	return out, nil
}

// attachGenres loads the genres for all given title ids in one query.
func (r *TitleRepo) attachGenres(ctx context.Context, byID map[uint64]*model.Title, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT tg.title_id, g.id, g.name, g.slug
		 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
		 WHERE tg.title_id IN (`+placeholders+`) ORDER BY g.slug`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var titleID uint64
		var g model.Genre
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return err
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}
	return rows.Err()
}

// Create inserts a title and its genre links in one transaction.
func (r *TitleRepo) Create(ctx context.Context, t *model.Title, categoryID *uint64, genreIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO titles (name, year, description, category_id) VALUES (?,?,?,?)",
		t.Name, t.Year, t.Description, categoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	for _, gid := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO title_genres (title_id, genre_id) VALUES (?,?)", t.ID, gid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update rewrites the title's own fields and, when genreIDs is non-nil,
// replaces its genre links.
func (r *TitleRepo) Update(ctx context.Context, t model.Title, categoryID *uint64, genreIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE titles SET name=?, year=?, description=?, category_id=? WHERE id=?",
		t.Name, t.Year, t.Description, categoryID, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM titles WHERE id=?", t.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrTitleNotFound
		} else if err != nil {
			return err
		}
	}
	if genreIDs != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM title_genres WHERE title_id=?", t.ID); err != nil {
			return err
		}
		for _, gid := range genreIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO title_genres (title_id, genre_id) VALUES (?,?)", t.ID, gid); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Delete removes a title; reviews, comments and genre links cascade.
func (r *TitleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM titles WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTitleNotFound
	}
	return nil
}

// Exists confirms a title id without loading the aggregate row; review and
// comment routes use it to 404 early on a bogus title_id.
func (r *TitleRepo) Exists(ctx context.Context, id uint64) error {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM titles WHERE id=?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrTitleNotFound
	}
	return err
}
