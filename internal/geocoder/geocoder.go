// Package geocoder wraps the external forward/reverse geocoding provider.
// Resolution failures never surface as errors: callers get a nil location
// (forward) or a synthesized label (reverse) and the UI stays alive.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/utils"
)

// Location is a resolved geocoding candidate.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

type Geocoder struct {
	config  config.Geocoder
	limiter *Limiter
}

func New(config config.Geocoder) *Geocoder {
	return &Geocoder{
		config:  config,
		limiter: NewLimiter(config.MinInterval()),
	}
}

// Limiter exposes the cooperative provider rate limit so callers issuing
// their own calls (the booking planner) share the same pacing.
func (g *Geocoder) Limiter() *Limiter {
	return g.limiter
}

// The provider returns coordinates as strings.
type providerPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (p providerPlace) location() (Location, bool) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Location{}, false
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Location{}, false
	}
	return Location{Lat: lat, Lng: lng, DisplayName: p.DisplayName}, true
}

// Forward resolves free-text input to at most one in-region location.
// Queries shorter than the configured minimum return nil without a request.
// Transport failures are retried with exponential backoff (base, then
// doubled, per extra attempt); exhausting retries yields nil, not an error.
func (g *Geocoder) Forward(ctx context.Context, address string) *Location {
	address = strings.TrimSpace(address)
	if uint(len([]rune(address))) < g.config.MinQueryLength {
		return nil
	}

	searchURL := fmt.Sprintf("%s/search?%s", g.config.BaseURL, url.Values{
		"q":      []string{address},
		"format": []string{"json"},
		"limit":  []string{strconv.FormatUint(uint64(g.config.CandidateLimit), 10)},
	}.Encode())

	backoff := g.config.BackoffBase()
	attempts := g.config.MaxRetries + 1
	for attempt := uint(1); attempt <= attempts; attempt++ {
		candidates, err := g.fetchCandidates(ctx, searchURL, g.config.ForwardTimeout())
		if err == nil {
			return g.firstInBounds(address, candidates)
		}

		slog.Warn("Forward geocode attempt failed", "address", address, "attempt", attempt, "error", err.Error())
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil
}

func (g *Geocoder) fetchCandidates(ctx context.Context, searchURL string, timeout time.Duration) ([]providerPlace, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := utils.HTTPRequest(reqCtx, http.MethodGet, searchURL, nil, map[string]string{
		"User-Agent": g.config.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var candidates []providerPlace
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// firstInBounds applies the bounding box filter. The filter is total: any
// candidate outside the region is rejected no matter how well it matched.
func (g *Geocoder) firstInBounds(address string, candidates []providerPlace) *Location {
	for _, candidate := range candidates {
		loc, ok := candidate.location()
		if !ok {
			continue
		}
		if g.config.Bounds.Contains(loc.Lat, loc.Lng) {
			return &loc
		}
	}
	slog.Debug("No in-region geocode candidate", "address", address, "candidates", len(candidates))
	return nil
}

// Reverse resolves coordinates to a display label. Mobile clients get the
// synthesized label without any network call: mobile reverse responses were
// unreliable enough in production that we stopped asking. Non-mobile
// clients get one request, no retry; any failure falls back to the same
// synthesized label.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64, mobile bool) string {
	if mobile {
		return FallbackLabel(lat, lng)
	}

	reverseURL := fmt.Sprintf("%s/reverse?%s", g.config.BaseURL, url.Values{
		"lat":    []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    []string{strconv.FormatFloat(lng, 'f', -1, 64)},
		"format": []string{"json"},
	}.Encode())

	if err := g.limiter.Wait(ctx); err != nil {
		return FallbackLabel(lat, lng)
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.config.ReverseTimeout())
	defer cancel()

	resp, err := utils.HTTPRequest(reqCtx, http.MethodGet, reverseURL, nil, map[string]string{
		"User-Agent": g.config.UserAgent,
	})
	if err != nil {
		slog.Warn("Reverse geocode failed", "lat", lat, "lng", lng, "error", err.Error())
		return FallbackLabel(lat, lng)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("Reverse geocode failed", "lat", lat, "lng", lng, "status_code", resp.StatusCode)
		return FallbackLabel(lat, lng)
	}

	var place providerPlace
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		slog.Warn("Reverse geocode failed", "lat", lat, "lng", lng, "error", err.Error())
		return FallbackLabel(lat, lng)
	}
	if place.Error != "" || place.DisplayName == "" {
		return FallbackLabel(lat, lng)
	}

	return shortLabel(place.DisplayName)
}

// ReverseLookup is Reverse for callers that also need the raw coordinates
// echoed back, matching the provider's reverse response shape.
func (g *Geocoder) ReverseLookup(ctx context.Context, lat, lng float64, mobile bool) Location {
	return Location{
		Lat:         lat,
		Lng:         lng,
		DisplayName: g.Reverse(ctx, lat, lng, mobile),
	}
}

// FallbackLabel synthesizes the label used when reverse geocoding is
// skipped or fails. Coordinates are rounded to 4 decimal places.
func FallbackLabel(lat, lng float64) string {
	return fmt.Sprintf("Current Location (%.4f, %.4f)", lat, lng)
}

// shortLabel keeps the first three comma-separated segments of a full
// formatted address.
func shortLabel(displayName string) string {
	segments := strings.Split(displayName, ",")
	if len(segments) > 3 {
		segments = segments[:3]
	}
	for i, segment := range segments {
		segments[i] = strings.TrimSpace(segment)
	}
	return strings.Join(segments, ", ")
}
