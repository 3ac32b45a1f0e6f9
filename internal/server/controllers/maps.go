package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/maps"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/routing"
	"github.com/gin-gonic/gin"
)

// GETMapState returns the shared map-provider session, or its inline error
// state when the provider is misconfigured or unreachable.
func GETMapState(c *gin.Context) {
	loader, ok := c.MustGet("maps").(*maps.Loader)
	if !ok {
		slog.Error("Failed to get maps loader from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	c.JSON(http.StatusOK, loader.State(c.Request.Context()))
}

// GETDirections returns alternative routes for display, with the selected
// route highlighted and the rest dimmed.
func GETDirections(c *gin.Context) {
	router, ok := c.MustGet("router").(*routing.Router)
	if !ok {
		slog.Error("Failed to get router from context")
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
	selected, _ := strconv.Atoi(c.DefaultQuery("selected", "0"))

	c.JSON(http.StatusOK, maps.Directions(c.Request.Context(), router, start, end, selected))
}
