package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/metrics"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/routing"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
	"github.com/gin-gonic/gin"
)

func queryCoordinates(c *gin.Context, latKey, lngKey string) (trip.Coordinates, bool) {
	lat, latErr := strconv.ParseFloat(c.Query(latKey), 64)
	lng, lngErr := strconv.ParseFloat(c.Query(lngKey), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": latKey + " and " + lngKey + " are required numbers"})
		return trip.Coordinates{}, false
	}
	return trip.Coordinates{Lat: lat, Lng: lng}, true
}

// GETRouting returns drivable route geometry between pickup and drop. The
// response's service field says whether OSRM answered or the straight-line
// fallback was used.
func GETRouting(c *gin.Context) {
	router, ok := c.MustGet("router").(*routing.Router)
	if !ok {
		slog.Error("Failed to get router from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	m, ok := c.MustGet("metrics").(*metrics.Metrics)
	if !ok {
		slog.Error("Failed to get metrics from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	start, ok := queryCoordinates(c, "startLat", "startLng")
	if !ok {
		return
	}
	end, ok := queryCoordinates(c, "endLat", "endLng")
	if !ok {
		return
	}

	result := router.FindRoute(c.Request.Context(), start, end)
	m.IncrementRoutingResponses(result.Service)
	c.JSON(http.StatusOK, result)
}
