// Package weather wraps the NOAA weather API (api.weather.gov). NOAA resolves
// a coordinate to a gridpoint first, then serves forecasts for that gridpoint.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"solarify-backend-go/internal/cache"
	"solarify-backend-go/pkg/retry"
)

const (
	defaultBaseURL = "https://api.weather.gov"
	cacheTTL       = time.Hour
)

// ErrMissingUserAgent is returned when no User-Agent is configured. NOAA
// rejects anonymous requests.
var ErrMissingUserAgent = errors.New("NOAA user agent is not configured")

// ForecastPeriod is one named period of a NOAA forecast.
type ForecastPeriod struct {
	Name             string `json:"name"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	IsDaytime        bool   `json:"isDaytime"`
	TemperatureF     int    `json:"temperatureF"`
	WindSpeed        string `json:"windSpeed"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

// Forecast is a resolved forecast for one location.
type Forecast struct {
	GridID  string           `json:"gridId"`
	Periods []ForecastPeriod `json:"periods"`
}

type pointsResponse struct {
	Properties struct {
		GridID   string `json:"gridId"`
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name             string `json:"name"`
			StartTime        string `json:"startTime"`
			EndTime          string `json:"endTime"`
			IsDaytime        bool   `json:"isDaytime"`
			Temperature      int    `json:"temperature"`
			WindSpeed        string `json:"windSpeed"`
			ShortForecast    string `json:"shortForecast"`
			DetailedForecast string `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

// Client calls the NOAA API with retry and caches forecasts briefly.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      cache.Cache
	retryCfg   retry.RetryConfig
}

// NewClient creates a new NOAA weather client.
func NewClient(userAgent string, c cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		cache:      c,
		retryCfg: retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
		},
	}
}

// GetForecast fetches the forecast for a coordinate, serving from cache when
// possible.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	if c.userAgent == "" {
		return nil, ErrMissingUserAgent
	}

	key := fmt.Sprintf("weather:%s,%s",
		strconv.FormatFloat(lat, 'f', 4, 64), strconv.FormatFloat(lon, 'f', 4, 64))
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
			var fc Forecast
			if err := json.Unmarshal([]byte(cached), &fc); err == nil {
				return &fc, nil
			}
		}
	}

	fc, err := retry.DoWithResult(ctx, c.retryCfg, func() (*Forecast, error) {
		return c.fetch(ctx, lat, lon)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(fc); err == nil {
			_ = c.cache.Set(ctx, key, string(encoded), cacheTTL)
		}
	}
	return fc, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (*Forecast, error) {
	pointsURL := fmt.Sprintf("%s/points/%s,%s", c.baseURL,
		strconv.FormatFloat(lat, 'f', 4, 64), strconv.FormatFloat(lon, 'f', 4, 64))

	var points pointsResponse
	if err := c.getJSON(ctx, pointsURL, &points); err != nil {
		return nil, fmt.Errorf("failed to resolve gridpoint: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, errors.New("NOAA returned no forecast URL for this location")
	}

	var fcResp forecastResponse
	if err := c.getJSON(ctx, points.Properties.Forecast, &fcResp); err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	fc := &Forecast{GridID: points.Properties.GridID}
	for _, p := range fcResp.Properties.Periods {
		fc.Periods = append(fc.Periods, ForecastPeriod{
			Name:             p.Name,
			StartTime:        p.StartTime,
			EndTime:          p.EndTime,
			IsDaytime:        p.IsDaytime,
			TemperatureF:     p.Temperature,
			WindSpeed:        p.WindSpeed,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
		})
	}
	return fc, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed with status %d", rawURL, resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}
