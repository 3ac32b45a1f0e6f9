// Package estimate derives a trip distance and duration from resolved
// waypoint coordinates. It is a pure function of its inputs: no network, no
// state.
package estimate

import (
	"math"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/utils"
)

// Estimator applies the configured estimation policy. The plausibility
// bounds flag likely geocoding mistakes (an address resolved half a country
// away, or two fields resolved to the same point).
type Estimator struct {
	policy config.Estimate
}

func NewEstimator(policy config.Estimate) *Estimator {
	return &Estimator{policy: policy}
}

// Result is a derived estimate. Err is set when the computed distance falls
// outside the plausible range; the distance and duration are then not usable
// numbers and the caller must block submission.
type Result struct {
	DistanceKm  float64 `json:"total_distance_km"`
	DurationMin int     `json:"total_duration_min"`
	Err         bool    `json:"error,omitempty"`
}

// Estimate sums great-circle leg distances over the waypoints in input order
// and derives a duration from the assumed average speed. It returns nil when
// fewer than two coordinates are given (the estimate is undefined, not an
// error).
func (e *Estimator) Estimate(coords []trip.Coordinates) *Result {
	if len(coords) < 2 {
		return nil
	}

	var totalKm float64
	for i := 1; i < len(coords); i++ {
		totalKm += utils.HaversineKm(coords[i-1].Lat, coords[i-1].Lng, coords[i].Lat, coords[i].Lng)
	}

	// Strict inequalities: totals exactly at a bound are accepted.
	if totalKm > e.policy.MaxPlausibleKm || totalKm < e.policy.MinPlausibleKm {
		return &Result{Err: true}
	}

	return &Result{
		DistanceKm:  totalKm,
		DurationMin: int(math.Ceil(totalKm / e.policy.AverageSpeedKmh * 60)),
	}
}

// EstimateDraft resolves a draft's coordinates and estimates over them.
// Returns nil when pickup or drop is unresolved.
func (e *Estimator) EstimateDraft(d trip.Draft) *Result {
	coords, ok := d.ResolvedCoordinates()
	if !ok {
		return nil
	}
	return e.Estimate(coords)
}
