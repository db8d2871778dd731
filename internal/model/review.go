package model

import "time"

// Review is a scored write-up of a title. One review per (author, title);
// the pair is unique at the database level. Score is validated to [1,10]
// before insert. Author carries the author's username for responses while
// AuthorID is what ownership checks compare against.
type Review struct {
	ID       uint64    `json:"id"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	AuthorID uint64    `json:"-"`
	TitleID  uint64    `json:"-"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}
