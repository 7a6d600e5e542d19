//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pilgrimage-cli/internal/config"
	"github.com/sells-group/pilgrimage-cli/internal/model"
	"github.com/sells-group/pilgrimage-cli/internal/pipeline"
)

const placesPage1 = `[
	{
		"id": 1,
		"link": "https://animetourism88.com/en/places/your-name",
		"title": {"rendered": "Your Name"},
		"_embedded": {"wp:term": [[{"id": 3, "name": "Tokyo", "taxonomy": "area"}]]}
	},
	{
		"id": 2,
		"link": "https://animetourism88.com/en/places/no-region",
		"title": {"rendered": "No Region"},
		"_embedded": {"wp:term": [[{"id": 5, "name": "Anime", "taxonomy": "category"}]]}
	}
]`

const placesPage2 = `[
	{
		"id": 3,
		"link": "https://animetourism88.com/en/places/laid-back-camp",
		"title": {"rendered": "Laid-Back Camp"},
		"_embedded": {"wp:term": [[{"id": 9, "name": "Chubu", "taxonomy": "places_cat"}]]}
	},
	{
		"id": 4,
		"link": "https://animetourism88.com/en/places/lost",
		"title": {"rendered": "Lost Work"},
		"_embedded": {"wp:term": [[{"id": 4, "name": "Hokkaido", "taxonomy": "area"}]]}
	}
]`

type fakeUpstreams struct {
	wp, google      *httptest.Server
	wpHits, geoHits atomic.Int32
	failPage        string
}

func newFakeUpstreams(t *testing.T) *fakeUpstreams {
	t.Helper()
	f := &fakeUpstreams{}

	f.wp = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.wpHits.Add(1)
		assert.Equal(t, "Mozilla/5.0 (Anime-Location Scraper)", r.Header.Get("User-Agent"))
		page := r.URL.Query().Get("page")
		if page == f.failPage {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("X-WP-TotalPages", "2")
		switch page {
		case "1":
			_, _ = w.Write([]byte(placesPage1))
		case "2":
			_, _ = w.Write([]byte(placesPage2))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(f.wp.Close)

	f.google = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.geoHits.Add(1)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		switch r.URL.Query().Get("address") {
		case "Your Name Tokyo Japan":
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":35.6812362,"lng":139.7671248}}}]}`))
		case "Laid-Back Camp Chubu Japan":
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":35.4,"lng":138.6}}}]}`))
		default:
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		}
	}))
	t.Cleanup(f.google.Close)

	return f
}

func testConfig(t *testing.T, f *fakeUpstreams) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		WordPress: config.WordPressConfig{
			BaseURL:   f.wp.URL + "/wp-json/wp/v2/places",
			UserAgent: "Mozilla/5.0 (Anime-Location Scraper)",
			PerPage:   2,
		},
		Google: config.GoogleConfig{
			MapsKey:     "test-key",
			BaseURL:     f.google.URL,
			Language:    "en",
			CountryHint: "Japan",
		},
		HTTP:   config.HTTPConfig{TimeoutSecs: 5},
		Output: config.OutputConfig{Path: filepath.Join(dir, "data", "places.json")},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}

func TestRunScrape_EndToEnd(t *testing.T) {
	f := newFakeUpstreams(t)
	cfg := testConfig(t, f)

	var out bytes.Buffer
	require.NoError(t, runScrape(context.Background(), &out, cfg))

	assert.Equal(t, int32(2), f.wpHits.Load())
	// "No Region" has neither area nor places_cat and never reaches Google.
	assert.Equal(t, int32(3), f.geoHits.Load())

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	var places []model.Place
	require.NoError(t, json.Unmarshal(data, &places))
	assert.Equal(t, []model.Place{
		{
			Slug:  "your-name",
			Title: "Your Name",
			Pref:  "Tokyo",
			Lat:   35.681236,
			Lng:   139.767125,
			URL:   "https://animetourism88.com/en/places/your-name",
		},
		{
			Slug:  "laid-back-camp",
			Title: "Laid-Back Camp",
			Pref:  "Chubu",
			Lat:   35.4,
			Lng:   138.6,
			URL:   "https://animetourism88.com/en/places/laid-back-camp",
		},
	}, places)

	stdout := out.String()
	assert.Contains(t, stdout, "Fetching place posts ...")
	assert.Contains(t, stdout, "-> 4 records")
	assert.Contains(t, stdout, "Geocoding 1/4 Your Name")
	assert.Contains(t, stdout, "Geocoding 4/4 Lost Work")
	assert.Contains(t, stdout, fmt.Sprintf("Wrote 2 spots -> %s", cfg.Output.Path))
	assert.Contains(t, stdout, "Skipped (no match)")
}

func TestRunScrape_Idempotent(t *testing.T) {
	f := newFakeUpstreams(t)
	cfg := testConfig(t, f)

	require.NoError(t, runScrape(context.Background(), &bytes.Buffer{}, cfg))
	first, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	require.NoError(t, runScrape(context.Background(), &bytes.Buffer{}, cfg))
	second, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunScrape_WritesGeoJSON(t *testing.T) {
	f := newFakeUpstreams(t)
	cfg := testConfig(t, f)
	cfg.Output.GeoJSONPath = filepath.Join(filepath.Dir(cfg.Output.Path), "places.geojson")

	var out bytes.Buffer
	require.NoError(t, runScrape(context.Background(), &out, cfg))

	data, err := os.ReadFile(cfg.Output.GeoJSONPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), `"your-name"`)
	assert.Contains(t, out.String(), "GeoJSON")
}

func TestRunScrape_MissingKeyAbortsBeforeNetwork(t *testing.T) {
	f := newFakeUpstreams(t)
	cfg := testConfig(t, f)
	cfg.Google.MapsKey = ""

	err := runScrape(context.Background(), &bytes.Buffer{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_KEY is required")
	assert.Equal(t, int32(0), f.wpHits.Load())
	assert.Equal(t, int32(0), f.geoHits.Load())
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestRunScrape_FetchFailureWritesNothing(t *testing.T) {
	f := newFakeUpstreams(t)
	f.failPage = "2"
	cfg := testConfig(t, f)

	err := runScrape(context.Background(), &bytes.Buffer{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch posts")
	assert.Contains(t, err.Error(), strconv.Itoa(http.StatusServiceUnavailable))
	assert.Equal(t, int32(0), f.geoHits.Load())
	assert.NoFileExists(t, cfg.Output.Path)
}

func TestRunScrape_OutputPathUnwritable(t *testing.T) {
	f := newFakeUpstreams(t)
	cfg := testConfig(t, f)

	blocker := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.Output.Path = filepath.Join(blocker, "places.json")

	err := runScrape(context.Background(), &bytes.Buffer{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write output")
}

func TestRenderSummary(t *testing.T) {
	s := renderSummary(pipeline.Summary{Fetched: 150, Written: 140, NotFound: 8, ServiceErrors: 2}, config.OutputConfig{Path: "data/places.json"})
	assert.Contains(t, s, "150")
	assert.Contains(t, s, "140")
	assert.Contains(t, s, "Skipped (service error)")
	assert.Contains(t, s, "data/places.json")
	assert.NotContains(t, s, "GeoJSON")
}
