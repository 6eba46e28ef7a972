package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultClient is used by adapters constructed without a client.
var DefaultClient = &http.Client{Timeout: 15 * time.Second}

// get issues a GET and returns the open body of a 2xx response. A 404 is
// reported as notFound when it is set; every other failure is ErrFetch.
func get(ctx context.Context, client *http.Client, url, userAgent, accept string, notFound error) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if client == nil {
		client = DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		resp.Body.Close()
		return nil, notFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, url, resp.StatusCode)
	}
	return resp.Body, nil
}
