package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
}

type googleResult struct {
	Geometry struct {
		Location *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
}

// Geocode implements Client.
func (g *geocoder) Geocode(ctx context.Context, work, region string) Result {
	if strings.TrimSpace(region) == "" {
		return Result{Status: StatusNotFound}
	}

	query := buildQuery(work, region, g.countryHint)
	result, err := g.geocodeGoogle(ctx, query)
	if err != nil {
		zap.L().Debug("geocode: google call failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return Result{Status: StatusServiceError, Query: query, Err: err}
	}
	return result
}

// buildQuery joins the non-empty parts with single spaces.
func buildQuery(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// geocodeGoogle sends one free-text query to the Google Geocoding API.
// The error return covers failures of the call itself; an answered query
// with no candidate is a StatusNotFound result.
func (g *geocoder) geocodeGoogle(ctx context.Context, query string) (Result, error) {
	params := url.Values{
		"address": {query},
		"key":     {g.apiKey},
	}
	if g.language != "" {
		params.Set("language", g.language)
	}

	reqURL := g.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, eris.Wrap(err, "geocode: google build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key; report the transport cause only.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return Result{}, eris.Wrap(err, "geocode: google request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return Result{}, eris.Errorf("geocode: google returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, eris.Wrap(err, "geocode: google read body")
	}

	var googleResp googleGeocodeResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return Result{}, eris.Wrap(err, "geocode: google parse response")
	}

	switch googleResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Result{Status: StatusNotFound, Query: query}, nil
	default:
		msg := googleResp.Status
		if googleResp.ErrorMessage != "" {
			msg += ": " + googleResp.ErrorMessage
		}
		return Result{}, eris.Errorf("geocode: google api error %s", msg)
	}

	if len(googleResp.Results) == 0 {
		return Result{Status: StatusNotFound, Query: query}, nil
	}

	loc := googleResp.Results[0].Geometry.Location
	if loc == nil {
		return Result{}, eris.New("geocode: google result has no location")
	}
	return Result{
		Status:    StatusResolved,
		Latitude:  Round6(loc.Lat),
		Longitude: Round6(loc.Lng),
		Query:     query,
	}, nil
}
