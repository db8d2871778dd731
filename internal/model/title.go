package model

// Title is a catalog entry users review. Rating is never stored: it is the
// mean of the associated review scores computed inside the list/get queries
// and is nil (JSON null) for a title with no reviews. Scores are bounded
// [1,10], so 0 must never show up as a synthesized rating.
type Title struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Rating      *float64  `json:"rating"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
}
