package pvwatts

import (
	"context"
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

const sampleResponse = `{
	"outputs": {
		"ac_annual": 8432.5,
		"ac_monthly": [520, 560, 690, 740, 790, 810, 820, 800, 730, 660, 560, 510],
		"solrad_annual": 5.31,
		"capacity_factor": 19.2
	},
	"errors": []
}`

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", cache.NewMemoryCache())
	client.baseURL = server.URL
	client.retryCfg = retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Millisecond),
		ShouldRetry: retryableHTTPError,
	}
	return client, server
}

func sampleRequest() EstimateRequest {
	return EstimateRequest{
		Latitude:       30.2672,
		Longitude:      -97.7431,
		SystemCapacity: 6,
		TiltDegrees:    20,
		AzimuthDegrees: 180,
		LossesPercent:  14,
	}
}

func TestClientEstimate(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the response", func(t *testing.T) {
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "6", r.URL.Query().Get("system_capacity"))
			w.Write([]byte(sampleResponse))
		})

		est, err := client.Estimate(ctx, sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, 8432.5, est.ACAnnualKWh)
		assert.Equal(t, 520.0, est.ACMonthlyKWh[0])
		assert.Equal(t, 510.0, est.ACMonthlyKWh[11])
		assert.Equal(t, 19.2, est.CapacityFactor)
	})

	t.Run("serves repeat lookups from cache", func(t *testing.T) {
		var calls int32
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(sampleResponse))
		})

		_, err := client.Estimate(ctx, sampleRequest())
		require.NoError(t, err)
		_, err = client.Estimate(ctx, sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(sampleResponse))
		})

		est, err := client.Estimate(ctx, sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, 8432.5, est.ACAnnualKWh)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("surfaces API validation errors", func(t *testing.T) {
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"outputs":{},"errors":["system_capacity out of range"]}`))
		})

		_, err := client.Estimate(ctx, sampleRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "system_capacity out of range")
	})

	t.Run("missing API key", func(t *testing.T) {
		client := NewClient("", cache.NewMemoryCache())
		_, err := client.Estimate(ctx, sampleRequest())
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})
}
