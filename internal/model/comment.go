package model

import "time"

// Comment is a reply attached to a review.
type Comment struct {
	ID       uint64    `json:"id"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	AuthorID uint64    `json:"-"`
	ReviewID uint64    `json:"-"`
	PubDate  time.Time `json:"pub_date"`
}
