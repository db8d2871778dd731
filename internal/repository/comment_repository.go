package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/media-review-api/internal/model"
)

// CommentRepo persists comments on reviews.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

const commentSelect = `SELECT c.id, c.text, u.username, c.author_id, c.review_id, c.pub_date
FROM comments c JOIN users u ON u.id = c.author_id`

// Create inserts a comment and reloads it with the author's username.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (review_id, author_id, text) VALUES (?,?,?)",
		cm.ReviewID, cm.AuthorID, cm.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.Get(ctx, cm.ReviewID, uint64(id))
	if err != nil {
		return err
	}
	*cm = got
	return nil
}

// Get fetches one comment scoped to its review.
func (r *CommentRepo) Get(ctx context.Context, reviewID, id uint64) (model.Comment, error) {
	var cm model.Comment
	err := r.DB.QueryRowContext(ctx, commentSelect+" WHERE c.id=? AND c.review_id=? LIMIT 1", id, reviewID).
		Scan(&cm.ID, &cm.Text, &cm.Author, &cm.AuthorID, &cm.ReviewID, &cm.PubDate)
	if err == sql.ErrNoRows {
		return model.Comment{}, ErrCommentNotFound
	}
	return cm, err
}

// ListByReview returns a review's comments, newest first.
func (r *CommentRepo) ListByReview(ctx context.Context, reviewID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		commentSelect+" WHERE c.review_id=? ORDER BY c.pub_date DESC, c.id DESC", reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.Author, &cm.AuthorID, &cm.ReviewID, &cm.PubDate); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// Update rewrites the text of an existing comment.
func (r *CommentRepo) Update(ctx context.Context, cm model.Comment) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET text=? WHERE id=?", cm.Text, cm.ID)
	return err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
