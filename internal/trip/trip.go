package trip

// Coordinates is a WGS 84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is a single location in a trip draft. Text is what the user
// typed; Coordinates and ResolvedName are filled in once geocoding resolves.
type Waypoint struct {
	Text         string       `json:"text"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	ResolvedName string       `json:"resolved_name,omitempty"`
}

func (w Waypoint) Resolved() bool {
	return w.Coordinates != nil
}

// Role distinguishes waypoints for presentation (marker icons).
type Role string

const (
	RolePickup Role = "pickup"
	RoleStop   Role = "stop"
	RoleDrop   Role = "drop"
	RoleDriver Role = "driver"
)

// Draft is an ordered trip: pickup, optional stops, drop. Pickup and drop
// are mandatory; stops keep their input order.
type Draft struct {
	Pickup Waypoint   `json:"pickup"`
	Stops  []Waypoint `json:"stops,omitempty"`
	Drop   Waypoint   `json:"drop"`
}

// Waypoints returns the draft's waypoints in travel order.
func (d Draft) Waypoints() []Waypoint {
	out := make([]Waypoint, 0, len(d.Stops)+2)
	out = append(out, d.Pickup)
	out = append(out, d.Stops...)
	out = append(out, d.Drop)
	return out
}

// ResolvedCoordinates returns the coordinates of every resolved waypoint in
// travel order, and whether both endpoints are resolved. Unresolved stops
// are skipped; an unresolved endpoint makes any estimate undefined.
func (d Draft) ResolvedCoordinates() ([]Coordinates, bool) {
	if !d.Pickup.Resolved() || !d.Drop.Resolved() {
		return nil, false
	}
	out := make([]Coordinates, 0, len(d.Stops)+2)
	out = append(out, *d.Pickup.Coordinates)
	for _, stop := range d.Stops {
		if stop.Resolved() {
			out = append(out, *stop.Coordinates)
		}
	}
	out = append(out, *d.Drop.Coordinates)
	return out, true
}
