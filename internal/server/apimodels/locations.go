package apimodels

// PutLocation is the payload for saving a rider location.
type PutLocation struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Label     string  `json:"label"`
	SaveType  string  `json:"save_type" binding:"required"`
}
