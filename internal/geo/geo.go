// Package geo wraps the free geocoding and routing services the platform
// depends on: Nominatim for forward/reverse geocoding and OSRM for route
// calculation. Both are public, rate-limited services — callers must not
// assume sub-second responses, and every method takes a context with the
// caller's deadline.
//
// Forward geocoding degrades gracefully: when Nominatim is unreachable or
// returns nothing, a fixed table of Chennai landmarks is consulted, and as a
// last resort the city centre is returned. A lookup therefore always yields
// usable coordinates.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteResult is the distilled OSRM response for one origin→destination trip.
type RouteResult struct {
	DistanceKm  float64     `json:"distance_km"`
	DurationMin float64     `json:"duration_min"`
	Path        [][]float64 `json:"path"` // [lon, lat] pairs, as OSRM returns them
}

// Client calls Nominatim and OSRM. The zero value is not usable; construct
// with NewClient.
type Client struct {
	nominatimURL string
	osrmURL      string
	userAgent    string
	httpClient   *http.Client
}

// NewClient builds a Client against the given service base URLs (no trailing
// slash). Nominatim's usage policy requires an identifying User-Agent.
func NewClient(nominatimURL, osrmURL string) *Client {
	return &Client{
		nominatimURL: strings.TrimRight(nominatimURL, "/"),
		osrmURL:      strings.TrimRight(osrmURL, "/"),
		userAgent:    "safepaws-backend/1.0",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ─── GEOCODING ────────────────────────────────────────────────────────────────

type nominatimSearchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type nominatimReverseResult struct {
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text place name to coordinates. It never returns
// an error for "place not found" — the landmark table and city-centre
// fallbacks guarantee a result. Only a cancelled context aborts the lookup.
func (c *Client) Geocode(ctx context.Context, place string) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}

	if p, ok := c.geocodeRemote(ctx, place); ok {
		return p, nil
	}
	if p, ok := landmarkLookup(place); ok {
		return p, nil
	}
	return chennaiCentre, nil
}

func (c *Client) geocodeRemote(ctx context.Context, place string) (Point, bool) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	var results []nominatimSearchResult
	if err := c.getJSON(ctx, c.nominatimURL+"/search?"+q.Encode(), &results); err != nil {
		return Point{}, false
	}
	if len(results) == 0 {
		return Point{}, false
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

// ReverseGeocode resolves coordinates to a human-readable address. An empty
// string with a nil error means the service had no answer; callers fall back
// to rendering the raw coordinates.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("format", "json")

	var result nominatimReverseResult
	if err := c.getJSON(ctx, c.nominatimURL+"/reverse?"+q.Encode(), &result); err != nil {
		return "", fmt.Errorf("geo: reverse geocode: %w", err)
	}
	return result.DisplayName, nil
}

// ─── ROUTING ──────────────────────────────────────────────────────────────────

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // metres
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route computes the driving route between two points.
func (c *Client) Route(ctx context.Context, from, to Point) (*RouteResult, error) {
	// OSRM takes lon,lat ordering.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.osrmURL, from.Lon, from.Lat, to.Lon, to.Lat)

	var resp osrmResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("geo: route: %w", err)
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, fmt.Errorf("geo: route: no route found (code %q)", resp.Code)
	}

	r := resp.Routes[0]
	return &RouteResult{
		DistanceKm:  r.Distance / 1000,
		DurationMin: r.Duration / 60,
		Path:        r.Geometry.Coordinates,
	}, nil
}

// ─── HTTP PLUMBING ────────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %.200s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
