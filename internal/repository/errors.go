// Package repository implements raw-SQL data access against MySQL. Each
// entity has its own repo type; sentinel errors defined here let handlers
// map storage failures onto HTTP statuses without string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when no user matches the given key.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when an insert collides with the unique email
// or username key.
var ErrUserExists = errors.New("user already exists")

// ErrSlugExists is returned when a category or genre insert collides with
// an existing slug.
var ErrSlugExists = errors.New("slug already exists")

// ErrCategoryNotFound / ErrGenreNotFound report unknown slugs.
var ErrCategoryNotFound = errors.New("category not found")
var ErrGenreNotFound = errors.New("genre not found")

// ErrTitleNotFound is returned when a title id does not exist.
var ErrTitleNotFound = errors.New("title not found")

// ErrReviewNotFound / ErrCommentNotFound report unknown ids within their
// parent scope.
var ErrReviewNotFound = errors.New("review not found")
var ErrCommentNotFound = errors.New("comment not found")

// ErrDuplicateReview is returned when an author reviews the same title a
// second time. The (title_id, author_id) pair is unique at the database
// level, which also makes the check race-free.
var ErrDuplicateReview = errors.New("review already exists for this title and author")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
