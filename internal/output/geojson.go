package output

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/pilgrimage-cli/internal/model"
)

// EncodeGeoJSON renders places as a FeatureCollection of points keyed by slug.
func EncodeGeoJSON(places []model.Place) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(places))}
	for _, p := range places {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       p.Slug,
			Geometry: geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat}),
			Properties: map[string]any{
				"title": p.Title,
				"pref":  p.Pref,
				"url":   p.URL,
			},
		})
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "output: encode geojson")
	}
	return data, nil
}

// WriteGeoJSON writes places as GeoJSON to path, creating parent
// directories and replacing any existing file.
func WriteGeoJSON(path string, places []model.Place) error {
	data, err := EncodeGeoJSON(places)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
