package model

// Genre tags a title (drama, rock, ...). A title carries any number of
// genres through the title_genres join table. Slug is the unique lookup key.
type Genre struct {
	ID   uint64 `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
