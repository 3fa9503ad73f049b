// Package product holds the catalog record and the ranked search hit built from it.
package product

// Record is one catalog product. ID is its row in the vector matrix.
type Record struct {
	ID          int
	Title       string
	Description string
	Categories  []string
	Features    []string
}

// Ranked is a search hit as returned to callers and stored in the result cache.
type Ranked struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Features    []string `json:"features"`
	Similarity  float64  `json:"similarity"`
}

// NewRanked builds a hit from a record and its similarity score.
// Nil slices become empty so the JSON form is always an array.
func NewRanked(r Record, similarity float64) Ranked {
	return Ranked{
		Title:       r.Title,
		Description: r.Description,
		Categories:  nonNil(r.Categories),
		Features:    nonNil(r.Features),
		Similarity:  similarity,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
