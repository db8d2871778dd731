package model

// Category groups titles by kind (film, book, music...). Slug is the unique
// lookup key used in URLs; the numeric ID stays internal.
type Category struct {
	ID   uint64 `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
