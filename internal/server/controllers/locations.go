package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/db/models"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/server/apimodels"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-nulltype"
	"gorm.io/gorm"
)

func riderID(c *gin.Context) (string, bool) {
	rider := c.GetHeader("X-Rider-ID")
	if rider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Rider-ID header is required"})
		return "", false
	}
	return rider, true
}

func contextDB(c *gin.Context) (*gorm.DB, bool) {
	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		slog.Error("Failed to get db from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return nil, false
	}
	return db, true
}

// GETLocations lists the rider's saved locations, most recently touched
// first.
func GETLocations(c *gin.Context) {
	rider, ok := riderID(c)
	if !ok {
		return
	}
	db, ok := contextDB(c)
	if !ok {
		return
	}

	locations, err := models.FindSavedLocationsByRiderID(db, rider)
	if err != nil {
		slog.Error("GETLocations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

// PUTLocations saves a new location for the rider.
func PUTLocations(c *gin.Context) {
	rider, ok := riderID(c)
	if !ok {
		return
	}
	db, ok := contextDB(c)
	if !ok {
		return
	}

	var req apimodels.PutLocation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude, longitude, address and save_type are required"})
		return
	}
	saveType := models.SaveType(req.SaveType)
	switch saveType {
	case models.Favorite, models.Recent, models.Home, models.Work:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "save_type must be favorite, recent, home or work"})
		return
	}

	location := models.SavedLocation{
		RiderID:   rider,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		SaveType:  saveType,
	}
	if req.Label != "" {
		location.Label = nulltype.NullStringOf(req.Label)
	}
	if err := db.Create(&location).Error; err != nil {
		slog.Error("PUTLocations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	c.JSON(http.StatusOK, location)
}

// DELETELocation removes one of the rider's saved locations.
func DELETELocation(c *gin.Context) {
	rider, ok := riderID(c)
	if !ok {
		return
	}
	db, ok := contextDB(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	location, err := models.FindSavedLocationByID(db, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	if location.RiderID != rider {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := models.DeleteSavedLocation(db, uint(id)); err != nil {
		slog.Error("DELETELocation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
