package apimodels

// GeocodeResponse is the resolved place for a forward lookup.
type GeocodeResponse struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// EstimateRequest is an ordered list of trip coordinates, pickup first.
type EstimateRequest struct {
	Coordinates []CoordinatesModel `json:"coordinates" binding:"required,min=2"`
}

type CoordinatesModel struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// EstimateResponse mirrors the estimator result. Err set means the totals
// were implausible and the client shows the error sentinel instead.
type EstimateResponse struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
	Err         bool    `json:"error"`
}
