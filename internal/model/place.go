package model

// Region taxonomies, in lookup priority order. "area" holds the prefecture;
// "places_cat" holds the wider regional block and is only a fallback.
const (
	TaxonomyArea      = "area"
	TaxonomyPlacesCat = "places_cat"
)

// Place is one geocoded pilgrimage location as written to the dataset.
// Field order is the output field order.
type Place struct {
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Pref  string  `json:"pref"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	URL   string  `json:"url"`
}
