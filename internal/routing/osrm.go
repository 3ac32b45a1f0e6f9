// Package routing fetches drivable route geometry from OSRM. Routing here
// is for display: booking decisions use the great-circle estimate, so a
// straight-line fallback is acceptable when OSRM is unreachable.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/utils"
)

const (
	ServiceOSRM         = "OSRM"
	ServiceStraightLine = "straight-line"
)

// Route is a single drivable (or synthesized) path between two points.
type Route struct {
	DistanceKm  float64            `json:"distance_km"`
	DurationMin int                `json:"duration_min"`
	Geometry    []trip.Coordinates `json:"geometry"`
}

// Result is a routing response. Service records whether OSRM answered or
// the straight-line fallback was used.
type Result struct {
	Service string `json:"service"`
	Route
}

type Router struct {
	config   config.Routing
	estimate config.Estimate
}

func NewRouter(config config.Routing, estimate config.Estimate) *Router {
	return &Router{config: config, estimate: estimate}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func (r *Router) osrmURL(start, end trip.Coordinates, alternatives bool) string {
	coord := func(c trip.Coordinates) string {
		return strconv.FormatFloat(c.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
	}
	url := fmt.Sprintf("%s/route/v1/driving/%s;%s?overview=full&geometries=geojson",
		r.config.OSRMBaseURL, coord(start), coord(end))
	if alternatives {
		url += "&alternatives=true"
	}
	return url
}

func (r *Router) fetch(ctx context.Context, url string) ([]Route, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.config.Timeout())
	defer cancel()

	resp, err := utils.HTTPRequest(reqCtx, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("no route (code %q)", decoded.Code)
	}

	routes := make([]Route, 0, len(decoded.Routes))
	for _, raw := range decoded.Routes {
		geometry := make([]trip.Coordinates, 0, len(raw.Geometry.Coordinates))
		for _, pair := range raw.Geometry.Coordinates {
			if len(pair) != 2 {
				continue
			}
			// GeoJSON order is [lng, lat].
			geometry = append(geometry, trip.Coordinates{Lat: pair[1], Lng: pair[0]})
		}
		routes = append(routes, Route{
			DistanceKm:  raw.Distance / 1000,
			DurationMin: int(math.Ceil(raw.Duration / 60)),
			Geometry:    geometry,
		})
	}
	return routes, nil
}

// FindRoute asks OSRM for a route and falls back to a straight line with a
// haversine distance when OSRM fails. The fallback never errors.
func (r *Router) FindRoute(ctx context.Context, start, end trip.Coordinates) Result {
	routes, err := r.fetch(ctx, r.osrmURL(start, end, false))
	if err != nil {
		slog.Warn("OSRM routing failed, using straight-line fallback", "error", err.Error())
		return Result{
			Service: ServiceStraightLine,
			Route:   r.straightLine(start, end),
		}
	}
	return Result{
		Service: ServiceOSRM,
		Route:   routes[0],
	}
}

// Alternatives returns up to a handful of alternative routes for display.
// Unlike FindRoute this surfaces failure to the caller, which renders an
// inline error state instead of geometry.
func (r *Router) Alternatives(ctx context.Context, start, end trip.Coordinates) ([]Route, error) {
	routes, err := r.fetch(ctx, r.osrmURL(start, end, true))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alternatives: %w", err)
	}
	return routes, nil
}

func (r *Router) straightLine(start, end trip.Coordinates) Route {
	distanceKm := utils.HaversineKm(start.Lat, start.Lng, end.Lat, end.Lng)
	durationMin := 0
	if r.estimate.AverageSpeedKmh > 0 {
		durationMin = int(math.Ceil(distanceKm / r.estimate.AverageSpeedKmh * 60))
	}
	return Route{
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Geometry:    []trip.Coordinates{start, end},
	}
}
