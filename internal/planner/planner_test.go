package planner_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/estimate"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/geocoder"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/planner"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
)

// fakeGeocoding resolves from a fixed table, optionally delaying to let
// tests race fresh input against in-flight requests.
type fakeGeocoding struct {
	mu        sync.Mutex
	delay     time.Duration
	locations map[string]geocoder.Location
	calls     []string
}

func (f *fakeGeocoding) Forward(_ context.Context, address string) *geocoder.Location {
	f.mu.Lock()
	f.calls = append(f.calls, address)
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if loc, ok := f.locations[address]; ok {
		return &loc
	}
	return nil
}

func (f *fakeGeocoding) Reverse(_ context.Context, lat, lng float64, mobile bool) string {
	if mobile {
		return geocoder.FallbackLabel(lat, lng)
	}
	return "Andheri East, Mumbai, Maharashtra"
}

func (f *fakeGeocoding) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var testLocations = map[string]geocoder.Location{
	"Mumbai Airport": {Lat: 19.0896, Lng: 72.8656, DisplayName: "Chhatrapati Shivaji Maharaj International Airport, Mumbai, India"},
	"Pune Station":   {Lat: 18.5289, Lng: 73.8744, DisplayName: "Pune Railway Station, Pune, India"},
	"Lonavala":       {Lat: 18.7546, Lng: 73.4062, DisplayName: "Lonavala, Maharashtra, India"},
	"Khandala":       {Lat: 18.7627, Lng: 73.3800, DisplayName: "Khandala, Maharashtra, India"},
}

var testPolicy = config.Estimate{AverageSpeedKmh: 30, MinPlausibleKm: 0.1, MaxPlausibleKm: 1000}

func testProfile() planner.Profile {
	return planner.Profile{Debounce: 20 * time.Millisecond, Stagger: 10 * time.Millisecond}
}

func newPlanner(geocoding planner.Geocoding) *planner.Planner {
	return planner.New(testProfile(), geocoding, estimate.NewEstimator(testPolicy))
}

// settle waits for all scheduled and in-flight resolutions to finish.
func settle(t *testing.T, p *planner.Planner) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for p.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("planner did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDebounceCoalescesEdits(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations}
	p := newPlanner(fake)

	// Rapid edits within the quiet period: only the last one resolves.
	p.SetPickupText("Mum")
	p.SetPickupText("Mumbai Air")
	p.SetPickupText("Mumbai Airport")
	settle(t, p)

	calls := fake.callLog()
	if len(calls) != 1 || calls[0] != "Mumbai Airport" {
		t.Errorf("expected a single geocode for the final text, got %v", calls)
	}

	draft := p.Draft()
	if !draft.Pickup.Resolved() {
		t.Fatal("expected pickup to resolve")
	}
	if draft.Pickup.Coordinates.Lat != 19.0896 {
		t.Errorf("unexpected pickup coordinates %v", draft.Pickup.Coordinates)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations, delay: 80 * time.Millisecond}
	p := newPlanner(fake)

	p.SetPickupText("Mumbai Airport")
	// Let the first request get in flight, then supersede it.
	time.Sleep(40 * time.Millisecond)
	p.SetPickupText("Pune Station")
	settle(t, p)

	draft := p.Draft()
	if !draft.Pickup.Resolved() {
		t.Fatal("expected pickup to resolve")
	}
	// The Mumbai response arrived after the edit and must not win.
	if draft.Pickup.Coordinates.Lat != 18.5289 {
		t.Errorf("stale response overwrote fresh input: %v", draft.Pickup.Coordinates)
	}
	if draft.Pickup.Text != "Pune Station" {
		t.Errorf("unexpected pickup text %q", draft.Pickup.Text)
	}
}

func TestStopsResolveInOrder(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations}
	p := newPlanner(fake)

	p.SetStopText(0, "Lonavala")
	p.SetStopText(1, "Khandala")
	settle(t, p)

	calls := fake.callLog()
	if len(calls) != 2 {
		t.Fatalf("expected 2 geocodes, got %v", calls)
	}
	// Staggered start delays keep stop resolution sequential.
	if calls[0] != "Lonavala" || calls[1] != "Khandala" {
		t.Errorf("expected stops geocoded in index order, got %v", calls)
	}
}

func TestSubmissionGate(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations}
	p := newPlanner(fake)

	if p.CanProceed() {
		t.Error("empty form must not proceed")
	}

	p.SetPickupText("Mumbai Airport")
	settle(t, p)
	if p.CanProceed() {
		t.Error("form without a drop must not proceed")
	}

	p.SetDropText("Somewhere Unknown")
	settle(t, p)
	if p.CanProceed() {
		t.Error("unresolved drop must not proceed")
	}

	p.SetDropText("Pune Station")
	settle(t, p)
	if !p.CanProceed() {
		t.Error("resolved pickup and drop with a sane estimate must proceed")
	}
}

func TestImplausibleEstimateBlocksSubmission(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: map[string]geocoder.Location{
		"Gateway of India":  {Lat: 18.9220, Lng: 72.8347},
		"Gateway of India ": {Lat: 18.9220, Lng: 72.8347},
	}}
	p := newPlanner(fake)

	// Pickup and drop resolve to the same point: below the minimum
	// plausible distance, so the estimate is the blocking error sentinel.
	p.SetPickupText("Gateway of India")
	p.SetDropText("Gateway of India ")
	settle(t, p)

	result := p.Estimate()
	if result == nil || !result.Err {
		t.Fatal("expected the error sentinel")
	}
	if p.CanProceed() {
		t.Error("an error estimate must block submission")
	}
	if _, err := p.Submit(); err == nil {
		t.Error("expected Submit to fail while blocked")
	}
}

func TestSubmitBuildsHandoff(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations}
	p := newPlanner(fake)

	p.SetPickupText("Mumbai Airport")
	p.SetDropText("Pune Station")
	p.SetStopText(0, "Lonavala")
	settle(t, p)

	encoded, err := p.Submit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handoff, err := trip.ParseHandoff(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handoff.Pickup.Text != "Mumbai Airport" || handoff.Drop.Text != "Pune Station" {
		t.Errorf("unexpected handoff endpoints: %q -> %q", handoff.Pickup.Text, handoff.Drop.Text)
	}
	if len(handoff.StopTexts) != 1 || handoff.StopTexts[0] != "Lonavala" {
		t.Errorf("unexpected handoff stops: %v", handoff.StopTexts)
	}
	if handoff.TotalDistance <= 0 || handoff.TotalDuration <= 0 {
		t.Errorf("unexpected estimate in handoff: %f km, %d min", handoff.TotalDistance, handoff.TotalDuration)
	}
}

func TestUseCurrentLocation(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations}
	p := newPlanner(fake)

	p.UseCurrentLocation(context.Background(), 19.1197, 72.8464)

	draft := p.Draft()
	if !draft.Pickup.Resolved() {
		t.Fatal("expected pickup coordinates to be set directly")
	}
	if draft.Pickup.Coordinates.Lat != 19.1197 || draft.Pickup.Coordinates.Lng != 72.8464 {
		t.Errorf("unexpected pickup coordinates %v", draft.Pickup.Coordinates)
	}
	if draft.Pickup.Text != "Andheri East, Mumbai, Maharashtra" {
		t.Errorf("unexpected pickup label %q", draft.Pickup.Text)
	}
}

func TestUseCurrentLocationMobileLabel(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoding{locations: testLocations}
	profile := testProfile()
	profile.Mobile = true
	p := planner.New(profile, fake, estimate.NewEstimator(testPolicy))

	p.UseCurrentLocation(context.Background(), 19.1197, 72.8464)
	if p.Draft().Pickup.Text != "Current Location (19.1197, 72.8464)" {
		t.Errorf("unexpected mobile label %q", p.Draft().Pickup.Text)
	}
}

func TestProfileForClientClass(t *testing.T) {
	t.Parallel()

	clients := config.Clients{
		DesktopDebounceMS: 2000,
		MobileDebounceMS:  3000,
		DesktopStaggerMS:  500,
		MobileStaggerMS:   750,
	}

	desktop := planner.ProfileFor(clients, false)
	if desktop.Debounce != 2*time.Second || desktop.Stagger != 500*time.Millisecond || desktop.Mobile {
		t.Errorf("unexpected desktop profile %+v", desktop)
	}

	mobile := planner.ProfileFor(clients, true)
	if mobile.Debounce != 3*time.Second || mobile.Stagger != 750*time.Millisecond || !mobile.Mobile {
		t.Errorf("unexpected mobile profile %+v", mobile)
	}
}

func TestGeolocationMessagesDistinguishCauses(t *testing.T) {
	t.Parallel()

	causes := []planner.GeolocationCause{
		planner.GeolocationPermissionDenied,
		planner.GeolocationPositionUnavailable,
		planner.GeolocationTimeout,
	}
	seen := map[string]planner.GeolocationCause{}
	for _, cause := range causes {
		msg := planner.GeolocationMessage(cause)
		if msg == "" {
			t.Errorf("empty message for cause %d", cause)
		}
		if other, dup := seen[msg]; dup {
			t.Errorf("causes %d and %d share message %q", cause, other, msg)
		}
		seen[msg] = cause
	}
	if !strings.Contains(planner.GeolocationMessage(planner.GeolocationPermissionDenied), "permission") {
		t.Error("permission message should mention permission")
	}
}
