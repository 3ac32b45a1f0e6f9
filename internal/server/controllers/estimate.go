package controllers

import (
	"log/slog"
	"net/http"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/estimate"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/server/apimodels"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
	"github.com/gin-gonic/gin"
)

// POSTEstimate computes the leg-summed trip estimate for an ordered list of
// coordinates.
func POSTEstimate(c *gin.Context) {
	estimator, ok := c.MustGet("estimator").(*estimate.Estimator)
	if !ok {
		slog.Error("Failed to get estimator from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	var req apimodels.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least two coordinates are required"})
		return
	}

	coords := make([]trip.Coordinates, 0, len(req.Coordinates))
	for _, coord := range req.Coordinates {
		coords = append(coords, trip.Coordinates{Lat: coord.Lat, Lng: coord.Lng})
	}

	result := estimator.Estimate(coords)
	if result == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least two coordinates are required"})
		return
	}
	c.JSON(http.StatusOK, apimodels.EstimateResponse{
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		Err:         result.Err,
	})
}
