// Package pvwatts wraps the NREL PVWatts v8 API, which estimates the energy
// production of a photovoltaic system from its location and configuration.
package pvwatts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solarify-backend-go/internal/cache"
	"solarify-backend-go/pkg/retry"
)

const (
	defaultBaseURL = "https://developer.nrel.gov/api/pvwatts/v8.json"
	cacheTTL       = 24 * time.Hour
)

// ErrMissingAPIKey is returned when the client is used without an NREL API key.
var ErrMissingAPIKey = errors.New("NREL API key is not configured")

// EstimateRequest describes the system to simulate.
type EstimateRequest struct {
	Latitude       float64
	Longitude      float64
	SystemCapacity float64 // kW DC
	TiltDegrees    float64
	AzimuthDegrees float64
	LossesPercent  float64
}

// Estimate is the subset of the PVWatts response the marketplace uses.
type Estimate struct {
	ACAnnualKWh    float64     `json:"acAnnualKWh"`
	ACMonthlyKWh   [12]float64 `json:"acMonthlyKWh"`
	SolradAnnual   float64     `json:"solradAnnual"`
	CapacityFactor float64     `json:"capacityFactor"`
}

type pvwattsResponse struct {
	Outputs struct {
		ACAnnual       float64   `json:"ac_annual"`
		ACMonthly      []float64 `json:"ac_monthly"`
		SolradAnnual   float64   `json:"solrad_annual"`
		CapacityFactor float64   `json:"capacity_factor"`
	} `json:"outputs"`
	Errors []string `json:"errors"`
}

// Client calls the PVWatts API with retry and caches results, since production
// estimates for a fixed site and system do not change day to day.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      cache.Cache
	retryCfg   retry.RetryConfig
}

// NewClient creates a new PVWatts client.
func NewClient(apiKey string, c cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		cache:      c,
		retryCfg: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
			ShouldRetry: retryableHTTPError,
		},
	}
}

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("pvwatts request failed with status %d: %s", e.status, e.body)
}

func retryableHTTPError(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.status == http.StatusTooManyRequests || statusErr.status >= 500
	}
	return true
}

// Estimate fetches a production estimate, serving from cache when possible.
func (c *Client) Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	key := c.cacheKey(req)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
			var est Estimate
			if err := json.Unmarshal([]byte(cached), &est); err == nil {
				return &est, nil
			}
		}
	}

	est, err := retry.DoWithResult(ctx, c.retryCfg, func() (*Estimate, error) {
		return c.fetch(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(est); err == nil {
			_ = c.cache.Set(ctx, key, string(encoded), cacheTTL)
		}
	}
	return est, nil
}

func (c *Client) fetch(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("lat", formatFloat(req.Latitude))
	params.Set("lon", formatFloat(req.Longitude))
	params.Set("system_capacity", formatFloat(req.SystemCapacity))
	params.Set("tilt", formatFloat(req.TiltDegrees))
	params.Set("azimuth", formatFloat(req.AzimuthDegrees))
	params.Set("losses", formatFloat(req.LossesPercent))
	params.Set("module_type", "0")
	params.Set("array_type", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pvwatts request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("pvwatts request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read pvwatts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{status: resp.StatusCode, body: truncate(string(body), 200)}
	}

	var parsed pvwattsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode pvwatts response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("pvwatts rejected the request: %s", parsed.Errors[0])
	}
	if len(parsed.Outputs.ACMonthly) != 12 {
		return nil, fmt.Errorf("pvwatts returned %d monthly values, want 12", len(parsed.Outputs.ACMonthly))
	}

	est := &Estimate{
		ACAnnualKWh:    parsed.Outputs.ACAnnual,
		SolradAnnual:   parsed.Outputs.SolradAnnual,
		CapacityFactor: parsed.Outputs.CapacityFactor,
	}
	copy(est.ACMonthlyKWh[:], parsed.Outputs.ACMonthly)
	return est, nil
}

func (c *Client) cacheKey(req EstimateRequest) string {
	return fmt.Sprintf("pvwatts:%s:%s:%s:%s:%s:%s",
		formatFloat(req.Latitude), formatFloat(req.Longitude),
		formatFloat(req.SystemCapacity), formatFloat(req.TiltDegrees),
		formatFloat(req.AzimuthDegrees), formatFloat(req.LossesPercent))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
