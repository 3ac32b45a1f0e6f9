package geocoder_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/geocoder"
)

// testConfig returns a geocoder config with production bounds but
// test-friendly timings.
func testConfig(baseURL string) config.Geocoder {
	return config.Geocoder{
		BaseURL:   baseURL,
		UserAgent: "geo-server-test",
		Bounds: config.BoundingBox{
			MinLat: 6.46,
			MaxLat: 37.6,
			MinLng: 68.18,
			MaxLng: 97.40,
		},
		ForwardTimeoutMS: 100,
		ReverseTimeoutMS: 100,
		MaxRetries:       2,
		BackoffBaseMS:    20,
		MinIntervalMS:    1,
		MinQueryLength:   3,
		CandidateLimit:   5,
	}
}

func TestForwardPicksFirstInRegionCandidate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Mumbai Airport" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("q"))
		}
		// First candidate is a same-named place abroad; second is in region.
		fmt.Fprint(w, `[
			{"lat": "41.9786", "lon": "-87.9048", "display_name": "O'Hare, Chicago, USA"},
			{"lat": "19.0896", "lon": "72.8656", "display_name": "Chhatrapati Shivaji Maharaj International Airport, Mumbai, India"}
		]`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	loc := g.Forward(context.Background(), "Mumbai Airport")
	if loc == nil {
		t.Fatal("expected a location")
	}
	if loc.Lat != 19.0896 || loc.Lng != 72.8656 {
		t.Errorf("expected the in-region candidate, got %v", loc)
	}
}

func TestForwardBoundingBoxFilterIsTotal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Every candidate is outside the region.
		fmt.Fprint(w, `[
			{"lat": "51.5074", "lon": "-0.1278", "display_name": "London, UK"},
			{"lat": "40.7128", "lon": "-74.0060", "display_name": "New York, USA"},
			{"lat": "-33.8688", "lon": "151.2093", "display_name": "Sydney, Australia"}
		]`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	if loc := g.Forward(context.Background(), "Victoria Station"); loc != nil {
		t.Errorf("expected nil for out-of-region candidates, got %v", loc)
	}
}

func TestForwardShortQuerySkipsRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	if loc := g.Forward(context.Background(), "ab"); loc != nil {
		t.Errorf("expected nil for a short query, got %v", loc)
	}
	if loc := g.Forward(context.Background(), "  a  "); loc != nil {
		t.Errorf("expected nil for a short query, got %v", loc)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no provider requests for short queries, got %d", hits.Load())
	}
}

func TestForwardRetriesWithBackoffThenGivesUp(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// Stall past the forward timeout so every attempt times out.
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	start := time.Now()
	loc := g.Forward(context.Background(), "Mumbai Airport")
	elapsed := time.Since(start)

	if loc != nil {
		t.Errorf("expected nil after exhausting retries, got %v", loc)
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 attempts (1 initial + 2 retries), got %d", hits.Load())
	}
	// Backoff waits are base then 2x base (20ms + 40ms here).
	if elapsed < 60*time.Millisecond {
		t.Errorf("expected at least 60ms of backoff waits, elapsed %v", elapsed)
	}
}

func TestForwardRecoversOnRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[{"lat": "18.5289", "lon": "73.8744", "display_name": "Pune Railway Station, Pune, India"}]`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	loc := g.Forward(context.Background(), "Pune Station")
	if loc == nil {
		t.Fatal("expected a location after a successful retry")
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", hits.Load())
	}
}

func TestReverseMobileSkipsNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"lat": "19.0896", "lon": "72.8656", "display_name": "should not be used"}`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	label := g.Reverse(context.Background(), 19.0896, 72.8656, true)
	if label != "Current Location (19.0896, 72.8656)" {
		t.Errorf("unexpected mobile label %q", label)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no provider requests on mobile, got %d", hits.Load())
	}
}

func TestReverseLabelRounding(t *testing.T) {
	t.Parallel()

	g := geocoder.New(testConfig("http://unused.invalid"))
	label := g.Reverse(context.Background(), 19.08961234, 72.86564321, true)
	if label != "Current Location (19.0896, 72.8656)" {
		t.Errorf("expected 4 decimal places, got %q", label)
	}
}

func TestReverseTruncatesDisplayName(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"lat": "19.0896", "lon": "72.8656", "display_name": "Terminal 2, Chhatrapati Shivaji Maharaj International Airport, Mumbai, Maharashtra, 400099, India"}`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	label := g.Reverse(context.Background(), 19.0896, 72.8656, false)
	want := "Terminal 2, Chhatrapati Shivaji Maharaj International Airport, Mumbai"
	if label != want {
		t.Errorf("expected %q, got %q", want, label)
	}
}

func TestReverseFallsBackOnProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error": "Unable to geocode"}`)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	label := g.Reverse(context.Background(), 12.9716, 77.5946, false)
	if label != "Current Location (12.9716, 77.5946)" {
		t.Errorf("unexpected fallback label %q", label)
	}
}

func TestReverseFallsBackOnTransportFailure(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := geocoder.New(testConfig(server.URL))
	label := g.Reverse(context.Background(), 28.6139, 77.2090, false)
	if label != "Current Location (28.6139, 77.2090)" {
		t.Errorf("unexpected fallback label %q", label)
	}
	// Reverse does not retry.
	if hits.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", hits.Load())
	}
}

func TestLimiterSpacesCalls(t *testing.T) {
	t.Parallel()

	limiter := geocoder.NewLimiter(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("expected three calls to span at least 60ms, elapsed %v", elapsed)
	}
}

func TestLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	limiter := geocoder.NewLimiter(time.Minute)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected a context error waiting out a minute-long interval")
	}
}
