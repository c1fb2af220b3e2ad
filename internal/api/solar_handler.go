package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/pvwatts"
	"solarify-backend-go/internal/weather"
)

// SolarHandler exposes the production-estimate and weather lookups backed by
// the NREL PVWatts and NOAA APIs.
type SolarHandler struct {
	pvwattsClient *pvwatts.Client
	weatherClient *weather.Client
	logger        *zap.Logger
}

// NewSolarHandler creates a new instance of SolarHandler.
func NewSolarHandler(pvwattsClient *pvwatts.Client, weatherClient *weather.Client, logger *zap.Logger) *SolarHandler {
	return &SolarHandler{pvwattsClient: pvwattsClient, weatherClient: weatherClient, logger: logger}
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required parameter: " + name})
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid numeric parameter: " + name})
		return 0, false
	}
	return v, true
}

func queryFloatDefault(c *gin.Context, name string, def float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid numeric parameter: " + name})
		return 0, false
	}
	return v, true
}

// EstimateProduction returns the PVWatts annual and monthly production
// estimate for a system at the given coordinates.
func (h *SolarHandler) EstimateProduction(c *gin.Context) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(c, "lon")
	if !ok {
		return
	}
	capacity, ok := queryFloat(c, "systemKW")
	if !ok {
		return
	}
	tilt, ok := queryFloatDefault(c, "tilt", 20)
	if !ok {
		return
	}
	azimuth, ok := queryFloatDefault(c, "azimuth", 180)
	if !ok {
		return
	}
	losses, ok := queryFloatDefault(c, "losses", 14)
	if !ok {
		return
	}

	estimate, err := h.pvwattsClient.Estimate(c.Request.Context(), pvwatts.EstimateRequest{
		Latitude:       lat,
		Longitude:      lon,
		SystemCapacity: capacity,
		TiltDegrees:    tilt,
		AzimuthDegrees: azimuth,
		LossesPercent:  losses,
	})
	if err != nil {
		if errors.Is(err, pvwatts.ErrMissingAPIKey) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Production estimates are not available"})
			return
		}
		h.logger.Error("PVWatts estimate failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch production estimate", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// GetForecast returns the NOAA weather forecast for the given coordinates.
func (h *SolarHandler) GetForecast(c *gin.Context) {
	lat, ok := queryFloat(c, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(c, "lon")
	if !ok {
		return
	}

	forecast, err := h.weatherClient.GetForecast(c.Request.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, weather.ErrMissingUserAgent) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Weather forecasts are not available"})
			return
		}
		h.logger.Error("Weather forecast failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch weather forecast", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}
