// Package geocode resolves free-text place queries to coordinates via the
// Google Geocoding API.
package geocode

import (
	"context"
	"math"
	"net/http"
	"time"
)

// Client geocodes a work title within a region.
type Client interface {
	// Geocode looks up "<work> <region> <country hint>" and returns the first
	// candidate's location. Failures are reported in the Result, never as a
	// separate error, so callers can decide per status.
	Geocode(ctx context.Context, work, region string) Result
}

// Status classifies a geocoding outcome.
type Status int

const (
	// StatusResolved means a candidate was found.
	StatusResolved Status = iota
	// StatusNotFound means the service answered but had no candidate, or the
	// lookup was skipped because no region was given.
	StatusNotFound
	// StatusServiceError means the call itself failed.
	StatusServiceError
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusNotFound:
		return "not_found"
	case StatusServiceError:
		return "service_error"
	default:
		return "unknown"
	}
}

// Result holds the geocoding output for one query.
type Result struct {
	Status    Status
	Latitude  float64
	Longitude float64
	Query     string
	// Err carries the failure detail when Status is StatusServiceError.
	Err error
}

// Resolved reports whether the result carries coordinates.
func (r Result) Resolved() bool { return r.Status == StatusResolved }

// Round6 rounds a coordinate to 6 decimal places (about 0.11 m).
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// DefaultBaseURL is the Google Geocoding JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithLanguage sets the language of returned results.
func WithLanguage(lang string) Option {
	return func(g *geocoder) {
		g.language = lang
	}
}

// WithCountryHint sets the text appended to every query.
func WithCountryHint(hint string) Option {
	return func(g *geocoder) {
		g.countryHint = hint
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		g.httpClient.Timeout = d
	}
}

type geocoder struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	language    string
	countryHint string
}

// NewClient creates a Google geocoding Client with the given API key.
func NewClient(apiKey string, opts ...Option) Client {
	g := &geocoder{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		language:    "en",
		countryHint: "Japan",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
