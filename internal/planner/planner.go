// Package planner coordinates booking-form input with geocoding and the
// trip estimator: debounced per-field resolution, stale-response guarding,
// the submission gate, and the navigation handoff.
package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/estimate"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/geocoder"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/trip"
	"github.com/puzpuzpuz/xsync/v3"
)

// Geocoding is the slice of the geocoder the planner needs.
type Geocoding interface {
	Forward(ctx context.Context, address string) *geocoder.Location
	Reverse(ctx context.Context, lat, lng float64, mobile bool) string
}

// Profile is the pacing for a client class. Mobile clients type slower and
// burst worse, so they get longer quiet periods.
type Profile struct {
	Debounce time.Duration
	Stagger  time.Duration
	Mobile   bool
}

// ProfileFor picks the pacing for a client class from configuration.
func ProfileFor(clients config.Clients, mobile bool) Profile {
	if mobile {
		return Profile{
			Debounce: clients.MobileDebounce(),
			Stagger:  clients.MobileStagger(),
			Mobile:   true,
		}
	}
	return Profile{
		Debounce: clients.DesktopDebounce(),
		Stagger:  clients.DesktopStagger(),
	}
}

const (
	fieldPickup = "pickup"
	fieldDrop   = "drop"
)

func fieldStop(index int) string {
	return fmt.Sprintf("stop:%d", index)
}

// Planner owns one booking form's transient state. All mutation happens
// under a single lock; geocoding runs outside it.
type Planner struct {
	profile   Profile
	geocoding Geocoding
	estimator *estimate.Estimator

	mu       sync.Mutex
	draft    trip.Draft
	timers   map[string]*time.Timer
	estimate *estimate.Result

	generations *xsync.MapOf[string, uint64]
	pending     *xsync.Counter
}

func New(profile Profile, geocoding Geocoding, estimator *estimate.Estimator) *Planner {
	return &Planner{
		profile:     profile,
		geocoding:   geocoding,
		estimator:   estimator,
		timers:      make(map[string]*time.Timer),
		generations: xsync.NewMapOf[string, uint64](),
		pending:     xsync.NewCounter(),
	}
}

// Pending reports scheduled or in-flight resolutions, for loading
// indicators and test synchronization.
func (p *Planner) Pending() int64 {
	return p.pending.Value()
}

// Draft returns a copy of the current trip draft.
func (p *Planner) Draft() trip.Draft {
	p.mu.Lock()
	defer p.mu.Unlock()
	draft := p.draft
	draft.Stops = append([]trip.Waypoint(nil), p.draft.Stops...)
	return draft
}

// Estimate returns the current derived estimate, nil while undefined.
func (p *Planner) Estimate() *estimate.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estimate
}

// SetPickupText records a pickup edit and schedules debounced resolution.
func (p *Planner) SetPickupText(text string) {
	p.mu.Lock()
	p.draft.Pickup = trip.Waypoint{Text: text}
	p.recomputeLocked()
	p.mu.Unlock()
	p.schedule(fieldPickup, text, p.profile.Debounce)
}

// SetDropText records a drop edit and schedules debounced resolution.
func (p *Planner) SetDropText(text string) {
	p.mu.Lock()
	p.draft.Drop = trip.Waypoint{Text: text}
	p.recomputeLocked()
	p.mu.Unlock()
	p.schedule(fieldDrop, text, p.profile.Debounce)
}

// SetStopText records a stop edit. Stops resolve with a staggered start on
// top of the debounce so a multi-stop paste doesn't burst the provider.
func (p *Planner) SetStopText(index int, text string) {
	p.mu.Lock()
	for len(p.draft.Stops) <= index {
		p.draft.Stops = append(p.draft.Stops, trip.Waypoint{})
	}
	p.draft.Stops[index] = trip.Waypoint{Text: text}
	p.recomputeLocked()
	p.mu.Unlock()
	p.schedule(fieldStop(index), text, p.profile.Debounce+p.profile.Stagger*time.Duration(index+1))
}

// RemoveStop drops a stop and discards any resolution in flight for it.
func (p *Planner) RemoveStop(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.draft.Stops) {
		return
	}
	p.draft.Stops = append(p.draft.Stops[:index], p.draft.Stops[index+1:]...)
	// Shifting indexes invalidates every stop field's tag.
	for i := range p.draft.Stops {
		p.bumpGeneration(fieldStop(i))
	}
	p.bumpGeneration(fieldStop(len(p.draft.Stops)))
	p.recomputeLocked()
}

func (p *Planner) bumpGeneration(field string) uint64 {
	gen, _ := p.generations.Compute(field, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
	return gen
}

// schedule arms the field's debounce timer, superseding any earlier edit.
func (p *Planner) schedule(field, text string, delay time.Duration) {
	p.mu.Lock()
	gen := p.bumpGeneration(field)
	if timer, ok := p.timers[field]; ok {
		if timer.Stop() {
			p.pending.Dec()
		}
	}
	p.pending.Inc()
	p.timers[field] = time.AfterFunc(delay, func() {
		p.resolve(field, text, gen)
	})
	p.mu.Unlock()
}

// resolve geocodes outside the lock and applies the result only if the
// field still holds the text the request was issued for. A stale response
// for superseded input is discarded, not applied.
func (p *Planner) resolve(field, text string, gen uint64) {
	defer p.pending.Dec()

	loc := p.geocoding.Forward(context.Background(), text)

	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.generations.Load(field); !ok || current != gen {
		return
	}
	waypoint := p.waypointLocked(field)
	if waypoint == nil || waypoint.Text != text {
		return
	}
	if loc != nil {
		waypoint.Coordinates = &trip.Coordinates{Lat: loc.Lat, Lng: loc.Lng}
		waypoint.ResolvedName = loc.DisplayName
	}
	p.recomputeLocked()
}

func (p *Planner) waypointLocked(field string) *trip.Waypoint {
	switch field {
	case fieldPickup:
		return &p.draft.Pickup
	case fieldDrop:
		return &p.draft.Drop
	}
	for i := range p.draft.Stops {
		if fieldStop(i) == field {
			return &p.draft.Stops[i]
		}
	}
	return nil
}

func (p *Planner) recomputeLocked() {
	p.estimate = p.estimator.EstimateDraft(p.draft)
}

// UseCurrentLocation populates pickup from browser geolocation and reverse
// geocodes a display label. The coordinates are authoritative; the label is
// cosmetic and may be the synthesized fallback.
func (p *Planner) UseCurrentLocation(ctx context.Context, lat, lng float64) {
	label := p.geocoding.Reverse(ctx, lat, lng, p.profile.Mobile)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.bumpGeneration(fieldPickup)
	p.draft.Pickup = trip.Waypoint{
		Text:         label,
		Coordinates:  &trip.Coordinates{Lat: lat, Lng: lng},
		ResolvedName: label,
	}
	p.recomputeLocked()
}

// CanProceed is the submission gate: both endpoints typed and resolved, and
// the estimate usable.
func (p *Planner) CanProceed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draft.Pickup.Text == "" || p.draft.Drop.Text == "" {
		return false
	}
	if !p.draft.Pickup.Resolved() || !p.draft.Drop.Resolved() {
		return false
	}
	return p.estimate != nil && !p.estimate.Err
}

// Submit builds the encoded navigation handoff. It fails when the gate
// does not pass; there is no backend round-trip here.
func (p *Planner) Submit() (string, error) {
	if !p.CanProceed() {
		return "", fmt.Errorf("trip is not ready for submission")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	stopTexts := make([]string, 0, len(p.draft.Stops))
	for _, stop := range p.draft.Stops {
		if stop.Text != "" {
			stopTexts = append(stopTexts, stop.Text)
		}
	}
	handoff := trip.Handoff{
		Pickup:        p.draft.Pickup,
		Drop:          p.draft.Drop,
		StopTexts:     stopTexts,
		TotalDistance: p.estimate.DistanceKm,
		TotalDuration: p.estimate.DurationMin,
	}
	return handoff.Encode()
}
