package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSharedClientHasNoTimeout(t *testing.T) {
	t.Parallel()

	// A client-level timeout would silently cap configured deadlines above
	// it. Every caller bounds its request with a context instead.
	if client.Timeout != 0 {
		t.Errorf("expected no client-level timeout, got %v", client.Timeout)
	}
}

func TestHTTPRequestHonorsContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		fmt.Fprint(w, "late")
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := HTTPRequest(ctx, http.MethodGet, server.URL, nil, nil); err == nil {
		t.Error("expected the context deadline to cancel the request")
	}
}

func TestHTTPRequestSetsHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "geo-server-test" {
			t.Errorf("unexpected User-Agent %q", got)
		}
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	resp, err := HTTPRequest(context.Background(), http.MethodGet, server.URL, nil, map[string]string{
		"User-Agent": "geo-server-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected status %d", resp.StatusCode)
	}
}
