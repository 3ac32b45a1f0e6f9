package models

import (
	"time"

	"github.com/mattn/go-nulltype"
	"gorm.io/gorm"
)

type SaveType string

const (
	Favorite SaveType = "favorite"
	Recent   SaveType = "recent"
	Home     SaveType = "home"
	Work     SaveType = "work"
)

// SavedLocation is a rider's stored address for quick selection in the
// booking form.
type SavedLocation struct {
	ID        uint                `json:"id" gorm:"primaryKey" binding:"required"`
	RiderID   string              `json:"rider_id" binding:"required" gorm:"index"`
	Latitude  float64             `json:"latitude" binding:"required"`
	Longitude float64             `json:"longitude" binding:"required"`
	Label     nulltype.NullString `json:"label,omitempty"`
	Address   string              `json:"address" binding:"required"`
	SaveType  SaveType            `json:"save_type" binding:"required"`
	Modified  time.Time           `json:"modified" gorm:"autoUpdateTime:milli,default:current_timestamp"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u SavedLocation) TableName() string {
	return "saved_locations"
}

func FindSavedLocationsByRiderID(db *gorm.DB, riderID string) ([]SavedLocation, error) {
	var locations []SavedLocation
	err := db.Where(&SavedLocation{RiderID: riderID}).Order("modified DESC").Find(&locations).Error
	return locations, err
}

func FindSavedLocationByID(db *gorm.DB, id uint) (SavedLocation, error) {
	var location SavedLocation
	err := db.First(&location, id).Error
	return location, err
}

func DeleteSavedLocation(db *gorm.DB, id uint) error {
	return db.Delete(&SavedLocation{}, id).Error
}
