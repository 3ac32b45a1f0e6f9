package utils

import (
	"context"
	"io"
	"net/http"
)

// The shared client carries no timeout of its own. Callers bound every
// request with a context deadline, and a client-level cap would silently
// shadow configured timeouts above it.
var client = http.Client{}

func HTTPRequest(ctx context.Context, method string, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &http.Response{}, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := client.Do(req)
	if err != nil {
		return &http.Response{}, err
	}
	return resp, nil
}
