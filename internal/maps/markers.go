package maps

import (
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
)

// Marker is a single map pin with a role-specific icon.
type Marker struct {
	Role     trip.Role        `json:"role"`
	Icon     string           `json:"icon"`
	Label    string           `json:"label,omitempty"`
	Position trip.Coordinates `json:"position"`
}

//nolint:golint,gochecknoglobals
var roleIcons = map[trip.Role]string{
	trip.RolePickup: "marker-pickup",
	trip.RoleStop:   "marker-stop",
	trip.RoleDrop:   "marker-drop",
	trip.RoleDriver: "marker-driver",
}

func newMarker(role trip.Role, w trip.Waypoint) Marker {
	label := w.ResolvedName
	if label == "" {
		label = w.Text
	}
	return Marker{
		Role:     role,
		Icon:     roleIcons[role],
		Label:    label,
		Position: *w.Coordinates,
	}
}

// Markers builds one marker per resolved waypoint, plus an optional driver
// position. Unresolved waypoints have nothing to pin yet.
func Markers(draft trip.Draft, driver *trip.Coordinates) []Marker {
	markers := make([]Marker, 0, len(draft.Stops)+3)
	if draft.Pickup.Resolved() {
		markers = append(markers, newMarker(trip.RolePickup, draft.Pickup))
	}
	for _, stop := range draft.Stops {
		if stop.Resolved() {
			markers = append(markers, newMarker(trip.RoleStop, stop))
		}
	}
	if draft.Drop.Resolved() {
		markers = append(markers, newMarker(trip.RoleDrop, draft.Drop))
	}
	if driver != nil {
		markers = append(markers, Marker{
			Role:     trip.RoleDriver,
			Icon:     roleIcons[trip.RoleDriver],
			Position: *driver,
		})
	}
	return markers
}
