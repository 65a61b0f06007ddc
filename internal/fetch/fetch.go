// Package fetch is the network collaborator: retrieve a URL's body within a
// bounded wait, or fail. Timeouts cancel the in-flight request and surface as
// network failures; callers treat a failed fetch as "skip this file".
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/greasekit/greasekit/errs"
)

// DefaultTimeout bounds a fetch when the caller does not configure one.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves the body at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher implements Fetcher over net/http with a per-request timeout.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher returns a fetcher bounded by timeout; a non-positive timeout
// falls back to DefaultTimeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{client: &http.Client{}, timeout: timeout}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, "fetch.Fetch", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, "fetch.Fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errs.Wrap(errs.KindNetwork, "fetch.Fetch",
			fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, "fetch.Fetch", err)
	}
	return body, nil
}
