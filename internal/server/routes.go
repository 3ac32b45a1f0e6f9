package server

import (
	"log/slog"
	"net/http"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/server/controllers"
	"github.com/gin-gonic/gin"
)

func applyRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.GET("/geocode", controllers.GETGeocode)
	api.GET("/routing", controllers.GETRouting)
	api.POST("/estimate", controllers.POSTEstimate)

	mapGroup := api.Group("/map")
	mapGroup.GET("/config", controllers.GETMapState)
	mapGroup.GET("/directions", controllers.GETDirections)

	locations := api.Group("/locations")
	locations.GET("", controllers.GETLocations)
	locations.PUT("", controllers.PUTLocations)
	locations.DELETE("/:id", controllers.DELETELocation)

	r.NoRoute(func(c *gin.Context) {
		slog.Warn("Not Found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}
