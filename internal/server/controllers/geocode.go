package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/cache"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/metrics"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/server/apimodels"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/utils"
	"github.com/gin-gonic/gin"
)

// GETGeocode serves both directions: ?q= forward geocodes an address,
// ?lat=&lng= reverse geocodes coordinates into a short label.
func GETGeocode(c *gin.Context) {
	geocoding, ok := c.MustGet("geocoding").(cache.Geocoding)
	if !ok {
		slog.Error("Failed to get geocoding from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	m, ok := c.MustGet("metrics").(*metrics.Metrics)
	if !ok {
		slog.Error("Failed to get metrics from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	if query := c.Query("q"); query != "" {
		loc := geocoding.Forward(c.Request.Context(), query)
		m.IncrementGeocodeLookups("forward", loc != nil)
		if loc == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No matching place in the serviceable region"})
			return
		}
		c.JSON(http.StatusOK, apimodels.GeocodeResponse{
			Lat:         loc.Lat,
			Lng:         loc.Lng,
			DisplayName: loc.DisplayName,
		})
		return
	}

	latParam, lngParam := c.Query("lat"), c.Query("lng")
	if latParam == "" || lngParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q or lat and lng are required"})
		return
	}
	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
		return
	}
	lng, err := strconv.ParseFloat(lngParam, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng must be a number"})
		return
	}

	// Mobile clients get the synthesized label without a provider call. The
	// response echoes the provider's reverse shape: coordinates plus label.
	mobile := utils.IsMobileUserAgent(c.GetHeader("User-Agent"))
	loc := geocoding.ReverseLookup(c.Request.Context(), lat, lng, mobile)
	m.IncrementGeocodeLookups("reverse", true)
	c.JSON(http.StatusOK, loc)
}
