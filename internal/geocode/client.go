package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ClientConfig holds settings for the postal code lookup client.
type ClientConfig struct {
	BaseURL           string        // e.g. https://api.zippopotam.us
	Country           string        // ISO country code used in lookup paths
	Timeout           time.Duration // per-call timeout
	RequestsPerSecond float64       // client-side rate limit for the upstream service
	Burst             int
}

// DefaultClientConfig returns the default lookup client settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           "https://api.zippopotam.us",
		Country:           "us",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// Client is a Geocoder backed by a Zippopotam-style HTTP API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a lookup client with a bounded per-call timeout and a
// client-side rate limiter to respect the upstream service's limits.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultClientConfig().BaseURL
	}
	if cfg.Country == "" {
		cfg.Country = DefaultClientConfig().Country
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultClientConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultClientConfig().Burst
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     log.With().Str("component", "geocoder").Logger(),
	}
}

// lookupResponse mirrors the subset of the Zippopotam payload we consume.
type lookupResponse struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// Geocode resolves a postal code. A 404 from the service maps to ErrNotFound;
// transport errors and non-2xx statuses are returned as-is for the caller to
// classify.
func (c *Client) Geocode(ctx context.Context, postalCode string) (Point, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Point{}, fmt.Errorf("geocode rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.Country, postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Point{}, fmt.Errorf("geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %s: %w", postalCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Point{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocode %s: unexpected status %d", postalCode, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Point{}, fmt.Errorf("geocode %s: decode response: %w", postalCode, err)
	}
	if len(body.Places) == 0 {
		return Point{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(body.Places[0].Latitude, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %s: parse latitude: %w", postalCode, err)
	}
	lng, err := strconv.ParseFloat(body.Places[0].Longitude, 64)
	if err != nil {
		return Point{}, fmt.Errorf("geocode %s: parse longitude: %w", postalCode, err)
	}

	c.logger.Debug().Str("zip", postalCode).Float64("lat", lat).Float64("lng", lng).Msg("Geocoded postal code")
	return Point{Lat: lat, Lng: lng}, nil
}
