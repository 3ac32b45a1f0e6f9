package maps

import (
	"context"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/routing"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
)

// DisplayRoute is a route styled for rendering: the selected route is
// highlighted, the alternatives are dimmed. Selection is presentation only
// and never feeds the trip estimate.
type DisplayRoute struct {
	routing.Route
	Selected bool `json:"selected"`
	Dimmed   bool `json:"dimmed"`
}

// DirectionsView is what the map renders for a pickup/drop pair: either
// routes or an inline error panel.
type DirectionsView struct {
	Routes []DisplayRoute `json:"routes,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Directions fetches alternative routes and styles them with the requested
// selection. An out-of-range selection falls back to the first route.
// Failures become the inline error state.
func Directions(ctx context.Context, router *routing.Router, start, end trip.Coordinates, selected int) DirectionsView {
	routes, err := router.Alternatives(ctx, start, end)
	if err != nil {
		return DirectionsView{Error: "Unable to load route directions"}
	}

	if selected < 0 || selected >= len(routes) {
		selected = 0
	}

	display := make([]DisplayRoute, 0, len(routes))
	for i, route := range routes {
		display = append(display, DisplayRoute{
			Route:    route,
			Selected: i == selected,
			Dimmed:   i != selected,
		})
	}
	return DirectionsView{Routes: display}
}
