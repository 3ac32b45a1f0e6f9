// Package maps owns the presentation side of the booking flow: the shared
// map-provider session, waypoint markers, and display-only route geometry.
package maps

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/utils"
	"golang.org/x/sync/singleflight"
)

// Session is the loaded map-provider handle shared by every consumer.
type Session struct {
	StyleURL string `json:"style_url"`
}

// State is what clients render: a ready session or an inline error panel.
// A missing API key or a failed load is presented, never thrown.
type State struct {
	Ready    bool   `json:"ready"`
	StyleURL string `json:"style_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Loader lazily initializes the provider session. At most one
// initialization is in flight; concurrent callers await the same result,
// and a completed load makes later calls a no-op. A failed load does not
// poison the loader; the next call tries again.
type Loader struct {
	config config.Map

	group   singleflight.Group
	mu      sync.Mutex
	session *Session
}

func NewLoader(config config.Map) *Loader {
	return &Loader{config: config}
}

// Load returns the shared session, initializing it on first use. The load
// itself runs under its own timeout, not the caller's context: the flight
// is shared, and one canceled caller must not fail every waiter.
func (l *Loader) Load(_ context.Context) (*Session, error) {
	l.mu.Lock()
	if l.session != nil {
		session := l.session
		l.mu.Unlock()
		return session, nil
	}
	l.mu.Unlock()

	result, err, _ := l.group.Do("load", func() (any, error) {
		return l.initialize()
	})
	if err != nil {
		return nil, err
	}

	session, ok := result.(*Session)
	if !ok {
		return nil, fmt.Errorf("unexpected session type %T", result)
	}
	return session, nil
}

// State renders Load's outcome for clients. Errors become the inline error
// state instead of propagating.
func (l *Loader) State(ctx context.Context) State {
	session, err := l.Load(ctx)
	if err != nil {
		return State{Error: err.Error()}
	}
	return State{Ready: true, StyleURL: session.StyleURL}
}

func (l *Loader) initialize() (*Session, error) {
	// A caller that raced past the fast path may land here after another
	// load already completed.
	l.mu.Lock()
	if l.session != nil {
		session := l.session
		l.mu.Unlock()
		return session, nil
	}
	l.mu.Unlock()

	if l.config.APIKey == "" {
		return nil, fmt.Errorf("map provider API key is not configured")
	}
	if l.config.StyleURL == "" {
		return nil, fmt.Errorf("map provider style URL is not configured")
	}

	styleURL := fmt.Sprintf("%s?key=%s", l.config.StyleURL, l.config.APIKey)

	loadCtx, cancel := context.WithTimeout(context.Background(), l.config.LoadTimeout())
	defer cancel()

	// Fetch the style once to validate the key before handing the URL out.
	resp, err := utils.HTTPRequest(loadCtx, http.MethodGet, styleURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load map style: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load map style: status %d", resp.StatusCode)
	}

	session := &Session{StyleURL: styleURL}
	l.mu.Lock()
	l.session = session
	l.mu.Unlock()
	return session, nil
}
