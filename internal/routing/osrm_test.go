package routing_test

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/routing"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/utils"
)

var (
	gateway = trip.Coordinates{Lat: 18.9220, Lng: 72.8347}
	marine  = trip.Coordinates{Lat: 18.9430, Lng: 72.8238}
)

func newRouter(baseURL string) *routing.Router {
	return routing.NewRouter(
		config.Routing{OSRMBaseURL: baseURL, TimeoutMS: 200},
		config.Estimate{AverageSpeedKmh: 30, MinPlausibleKm: 0.1, MaxPlausibleKm: 1000},
	)
}

func TestFindRouteOSRM(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/route/v1/driving/72.8347,18.922;72.8238,18.943"
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path %q, want %q", r.URL.Path, wantPath)
		}
		fmt.Fprint(w, `{
			"code": "Ok",
			"routes": [{
				"distance": 4120.5,
				"duration": 612.2,
				"geometry": {"coordinates": [[72.8347, 18.922], [72.8290, 18.9325], [72.8238, 18.943]]}
			}]
		}`)
	}))
	defer server.Close()

	result := newRouter(server.URL).FindRoute(context.Background(), gateway, marine)
	if result.Service != routing.ServiceOSRM {
		t.Errorf("expected OSRM service, got %q", result.Service)
	}
	if math.Abs(result.DistanceKm-4.1205) > 1e-9 {
		t.Errorf("expected 4.1205 km, got %f", result.DistanceKm)
	}
	if result.DurationMin != 11 {
		t.Errorf("expected 612.2 s to round up to 11 min, got %d", result.DurationMin)
	}
	if len(result.Geometry) != 3 {
		t.Errorf("expected 3 geometry points, got %d", len(result.Geometry))
	}
	// GeoJSON pairs are [lng, lat] and must be swapped.
	if result.Geometry[0].Lat != 18.922 || result.Geometry[0].Lng != 72.8347 {
		t.Errorf("geometry order wrong: %v", result.Geometry[0])
	}
}

func TestDurationExactMinutesNotOvercounted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"code": "Ok",
			"routes": [{
				"distance": 5000,
				"duration": 600,
				"geometry": {"coordinates": [[72.8347, 18.922], [72.8238, 18.943]]}
			}]
		}`)
	}))
	defer server.Close()

	result := newRouter(server.URL).FindRoute(context.Background(), gateway, marine)
	// 600 s is exactly 10 minutes; ceiling must not add an eleventh.
	if result.DurationMin != 10 {
		t.Errorf("expected exactly 10 min, got %d", result.DurationMin)
	}
}

func TestFindRouteFallsBackToStraightLine(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result := newRouter(server.URL).FindRoute(context.Background(), gateway, marine)
	if result.Service != routing.ServiceStraightLine {
		t.Errorf("expected straight-line fallback, got %q", result.Service)
	}
	want := utils.HaversineKm(gateway.Lat, gateway.Lng, marine.Lat, marine.Lng)
	if math.Abs(result.DistanceKm-want) > 1e-9 {
		t.Errorf("expected haversine distance %f, got %f", want, result.DistanceKm)
	}
	if len(result.Geometry) != 2 {
		t.Errorf("expected a two-point straight line, got %d points", len(result.Geometry))
	}
	if result.Geometry[0] != gateway || result.Geometry[1] != marine {
		t.Errorf("straight line endpoints wrong: %v", result.Geometry)
	}
}

func TestFindRouteFallsBackOnNoRoute(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": "NoRoute", "routes": []}`)
	}))
	defer server.Close()

	result := newRouter(server.URL).FindRoute(context.Background(), gateway, marine)
	if result.Service != routing.ServiceStraightLine {
		t.Errorf("expected straight-line fallback, got %q", result.Service)
	}
}

func TestAlternatives(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alternatives") != "true" {
			t.Error("expected alternatives=true")
		}
		fmt.Fprint(w, `{
			"code": "Ok",
			"routes": [
				{"distance": 4120.5, "duration": 612.2, "geometry": {"coordinates": [[72.8347, 18.922], [72.8238, 18.943]]}},
				{"distance": 4850.0, "duration": 701.8, "geometry": {"coordinates": [[72.8347, 18.922], [72.8300, 18.9300], [72.8238, 18.943]]}}
			]
		}`)
	}))
	defer server.Close()

	routes, err := newRouter(server.URL).Alternatives(context.Background(), gateway, marine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[1].DistanceKm <= routes[0].DistanceKm {
		t.Errorf("expected the alternative to be longer: %v", routes)
	}
}

func TestAlternativesSurfacesFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newRouter(server.URL).Alternatives(context.Background(), gateway, marine); err == nil {
		t.Error("expected an error when OSRM is unavailable")
	}
}
