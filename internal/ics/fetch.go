package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fetchTimeout bounds a single feed retrieval. There are no retries; a
// timed-out feed simply contributes nothing to the run.
const fetchTimeout = 30 * time.Second

// Fetcher retrieves raw ICS documents over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the standard feed timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// Fetch performs a single GET against the feed URL and returns the response
// body. Any non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// TruncateURL shortens a feed URL for progress and warning lines, so signed
// query strings do not end up in console output verbatim.
func TruncateURL(u string) string {
	const max = 70
	if len(u) <= max {
		return u
	}
	return u[:max] + "..."
}
