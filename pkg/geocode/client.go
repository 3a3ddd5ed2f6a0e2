// Package geocode resolves free-text locations to coordinates via the
// OpenStreetMap Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client resolves a location label to a coordinate pair.
type Client interface {
	// Resolve returns the best-match coordinates for a free-text location,
	// or ErrNotFound when the geocoder has no match.
	Resolve(ctx context.Context, location string) (Point, error)
}

// Point is a resolved coordinate pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ErrNotFound is returned when the geocoder has no match for the location.
var ErrNotFound = eris.New("geocode: location not found")

// Option configures the Nominatim client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header. Nominatim requires an
// identifying agent.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithRateLimit overrides the request rate in requests per second.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a Nominatim client. The default limiter honors the
// public usage policy of one request per second.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://nominatim.openstreetmap.org",
		userAgent: "roadwatch-risk-cli/1.0",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResult is the subset of the Nominatim response we consume.
// Coordinates come back as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve implements Client.
func (c *httpClient) Resolve(ctx context.Context, location string) (Point, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Point{}, eris.Wrap(err, "geocode: rate limit wait")
	}

	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s",
		c.baseURL, url.QueryEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Point{}, eris.Wrap(err, "geocode: search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, eris.Errorf("geocode: search returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, eris.Wrap(err, "geocode: decode response")
	}
	if len(results) == 0 {
		return Point{}, eris.Wrapf(ErrNotFound, "location %q", location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, eris.Wrap(err, "geocode: parse latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, eris.Wrap(err, "geocode: parse longitude")
	}

	return Point{Latitude: lat, Longitude: lon}, nil
}
