package pipeline

import (
	"context"
	"html"
	"strings"

	"github.com/sells-group/pilgrimage-cli/internal/model"
	"github.com/sells-group/pilgrimage-cli/internal/slug"
	"github.com/sells-group/pilgrimage-cli/pkg/geocode"
	"github.com/sells-group/pilgrimage-cli/pkg/wordpress"
)

// Region returns the prefecture label of a post: the "area" term, or the
// "places_cat" block when no area is set.
func Region(post wordpress.Post) string {
	if area := post.Term(model.TaxonomyArea); area != "" {
		return area
	}
	return post.Term(model.TaxonomyPlacesCat)
}

// resolve geocodes one post. The returned Place is only meaningful when the
// result is resolved; its Title and Pref are always filled for reporting.
func (p *Pipeline) resolve(ctx context.Context, post wordpress.Post) (model.Place, geocode.Result) {
	title := cleanText(post.Title.Rendered)
	pref := cleanText(Region(post))

	place := model.Place{Title: title, Pref: pref}
	result := p.geocoder.Geocode(ctx, title, pref)
	if !result.Resolved() {
		return place, result
	}

	place.Slug = slug.Make(title)
	if place.Slug == "" {
		place.Slug = post.Slug
	}
	place.Lat = result.Latitude
	place.Lng = result.Longitude
	place.URL = post.Link
	return place, result
}

// cleanText decodes the HTML entities WordPress puts in rendered fields.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
