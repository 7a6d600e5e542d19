package wordpress

// Post is a single entry of a WordPress REST collection, requested with
// _embed so taxonomy terms are inlined.
type Post struct {
	ID       int      `json:"id"`
	Slug     string   `json:"slug"`
	Link     string   `json:"link"`
	Title    Rendered `json:"title"`
	Embedded Embedded `json:"_embedded"`
}

// Rendered holds a field WordPress returns as {"rendered": "..."}.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Embedded holds the inlined relations of a post.
type Embedded struct {
	// Terms is grouped per taxonomy in the order WordPress emits them.
	Terms [][]Term `json:"wp:term"`
}

// Term is a taxonomy term attached to a post.
type Term struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Term returns the name of the first embedded term belonging to taxonomy,
// or "" when the post has none.
func (p Post) Term(taxonomy string) string {
	for _, group := range p.Embedded.Terms {
		for _, t := range group {
			if t.Taxonomy == taxonomy {
				return t.Name
			}
		}
	}
	return ""
}
