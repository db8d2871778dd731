package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/media-review-api/internal/model"
)

// ReviewRepo persists reviews. Rows are always read joined with users so
// responses carry the author's username without a second query.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewSelect = `SELECT r.id, r.text, u.username, r.author_id, r.title_id, r.score, r.pub_date
FROM reviews r JOIN users u ON u.id = r.author_id`

// Create inserts a review. The unique (title_id, author_id) key turns a
// second review by the same author into ErrDuplicateReview, race-free.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (title_id, author_id, text, score) VALUES (?,?,?,?)",
		rv.TitleID, rv.AuthorID, rv.Text, rv.Score)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.Get(ctx, rv.TitleID, uint64(id))
	if err != nil {
		return err
	}
	*rv = got
	return nil
}

// Get fetches one review scoped to its title.
func (r *ReviewRepo) Get(ctx context.Context, titleID, id uint64) (model.Review, error) {
	var rv model.Review
	err := r.DB.QueryRowContext(ctx, reviewSelect+" WHERE r.id=? AND r.title_id=? LIMIT 1", id, titleID).
		Scan(&rv.ID, &rv.Text, &rv.Author, &rv.AuthorID, &rv.TitleID, &rv.Score, &rv.PubDate)
	if err == sql.ErrNoRows {
		return model.Review{}, ErrReviewNotFound
	}
	return rv, err
}

// ListByTitle returns a title's reviews, newest first.
func (r *ReviewRepo) ListByTitle(ctx context.Context, titleID uint64) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		reviewSelect+" WHERE r.title_id=? ORDER BY r.pub_date DESC, r.id DESC", titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.Text, &rv.Author, &rv.AuthorID, &rv.TitleID, &rv.Score, &rv.PubDate); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Update rewrites text and score of an existing review.
func (r *ReviewRepo) Update(ctx context.Context, rv model.Review) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET text=?, score=? WHERE id=?", rv.Text, rv.Score, rv.ID)
	return err
}

// Delete removes a review; its comments cascade.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
