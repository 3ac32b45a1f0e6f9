package trip

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Handoff is the one-way navigation payload passed to car selection. It is
// only built once the submission gate passes, so the estimate is always a
// usable number here.
type Handoff struct {
	Pickup        Waypoint
	Drop          Waypoint
	StopTexts     []string
	TotalDistance float64
	TotalDuration int
}

// Query keys are a stable contract with the car-selection page.
const (
	keyPickup        = "pickup"
	keyDrop          = "drop"
	keyStops         = "stops"
	keyPickupLat     = "pickupLat"
	keyPickupLng     = "pickupLng"
	keyDropLat       = "dropLat"
	keyDropLng       = "dropLng"
	keyTotalDistance = "totalDistance"
	keyTotalDuration = "totalDuration"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Encode serializes the handoff as a URL query string.
func (h Handoff) Encode() (string, error) {
	if !h.Pickup.Resolved() || !h.Drop.Resolved() {
		return "", fmt.Errorf("handoff requires resolved pickup and drop")
	}
	stops := h.StopTexts
	if stops == nil {
		stops = []string{}
	}
	stopsJSON, err := json.Marshal(stops)
	if err != nil {
		return "", fmt.Errorf("failed to encode stops: %w", err)
	}

	values := url.Values{}
	values.Set(keyPickup, h.Pickup.Text)
	values.Set(keyDrop, h.Drop.Text)
	values.Set(keyStops, string(stopsJSON))
	values.Set(keyPickupLat, formatFloat(h.Pickup.Coordinates.Lat))
	values.Set(keyPickupLng, formatFloat(h.Pickup.Coordinates.Lng))
	values.Set(keyDropLat, formatFloat(h.Drop.Coordinates.Lat))
	values.Set(keyDropLng, formatFloat(h.Drop.Coordinates.Lng))
	values.Set(keyTotalDistance, formatFloat(h.TotalDistance))
	values.Set(keyTotalDuration, strconv.Itoa(h.TotalDuration))
	return values.Encode(), nil
}

// ParseHandoff is the inverse of Encode. Encode then ParseHandoff yields the
// same texts, coordinates, and estimate.
func ParseHandoff(query string) (Handoff, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse handoff query: %w", err)
	}

	var stops []string
	if raw := values.Get(keyStops); raw != "" {
		if err := json.Unmarshal([]byte(raw), &stops); err != nil {
			return Handoff{}, fmt.Errorf("failed to parse stops: %w", err)
		}
	}

	pickupLat, err := strconv.ParseFloat(values.Get(keyPickupLat), 64)
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse pickup latitude: %w", err)
	}
	pickupLng, err := strconv.ParseFloat(values.Get(keyPickupLng), 64)
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse pickup longitude: %w", err)
	}
	dropLat, err := strconv.ParseFloat(values.Get(keyDropLat), 64)
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse drop latitude: %w", err)
	}
	dropLng, err := strconv.ParseFloat(values.Get(keyDropLng), 64)
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse drop longitude: %w", err)
	}
	distance, err := strconv.ParseFloat(values.Get(keyTotalDistance), 64)
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse total distance: %w", err)
	}
	duration, err := strconv.Atoi(values.Get(keyTotalDuration))
	if err != nil {
		return Handoff{}, fmt.Errorf("failed to parse total duration: %w", err)
	}

	return Handoff{
		Pickup: Waypoint{
			Text:        values.Get(keyPickup),
			Coordinates: &Coordinates{Lat: pickupLat, Lng: pickupLng},
		},
		Drop: Waypoint{
			Text:        values.Get(keyDrop),
			Coordinates: &Coordinates{Lat: dropLat, Lng: dropLng},
		},
		StopTexts:     stops,
		TotalDistance: distance,
		TotalDuration: duration,
	}, nil
}
