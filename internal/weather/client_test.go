package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/cache"
	"solarify-backend-go/pkg/retry"
)

func testClient(t *testing.T) (*Client, *int32) {
	t.Helper()
	var forecastCalls int32

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "solarify-tests (test@example.com)", r.Header.Get("User-Agent"))
		fmt.Fprintf(w, `{"properties":{"gridId":"EWX","forecast":"%s/gridpoints/EWX/155,90/forecast"}}`, server.URL)
	})
	mux.HandleFunc("/gridpoints/EWX/155,90/forecast", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&forecastCalls, 1)
		w.Write([]byte(`{"properties":{"periods":[
			{"name":"Tonight","isDaytime":false,"temperature":68,"windSpeed":"5 mph","shortForecast":"Clear"},
			{"name":"Monday","isDaytime":true,"temperature":97,"windSpeed":"10 mph","shortForecast":"Sunny"}
		]}}`))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("solarify-tests (test@example.com)", cache.NewMemoryCache())
	client.baseURL = server.URL
	client.retryCfg = retry.RetryConfig{
		MaxAttempts: 2,
		Backoff:     retry.LinearBackoff(time.Millisecond),
	}
	return client, &forecastCalls
}

func TestClientGetForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the gridpoint and maps periods", func(t *testing.T) {
		client, _ := testClient(t)

		fc, err := client.GetForecast(ctx, 30.2672, -97.7431)
		require.NoError(t, err)

		assert.Equal(t, "EWX", fc.GridID)
		require.Len(t, fc.Periods, 2)
		assert.Equal(t, "Tonight", fc.Periods[0].Name)
		assert.False(t, fc.Periods[0].IsDaytime)
		assert.Equal(t, 97, fc.Periods[1].TemperatureF)
		assert.Equal(t, "Sunny", fc.Periods[1].ShortForecast)
	})

	t.Run("serves repeat lookups from cache", func(t *testing.T) {
		client, forecastCalls := testClient(t)

		_, err := client.GetForecast(ctx, 30.2672, -97.7431)
		require.NoError(t, err)
		_, err = client.GetForecast(ctx, 30.2672, -97.7431)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(forecastCalls))
	})

	t.Run("missing user agent", func(t *testing.T) {
		client := NewClient("", cache.NewMemoryCache())
		_, err := client.GetForecast(ctx, 30.0, -97.0)
		assert.ErrorIs(t, err, ErrMissingUserAgent)
	})
}
