package skills

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/shrey150/openclaw-browserbase/internal/logging"
)

// UserAgent identifies this tool to the remote source.
const UserAgent = "openclaw-browserbase/1.0 (+https://github.com/shrey150/openclaw-browserbase)"

// Fetcher retrieves the body of a remote URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP. Failed requests are reported, never
// retried; callers decide whether to run the sync again.
type HTTPFetcher struct {
	// Client is used for requests, http.DefaultClient when nil. Timeouts
	// belong to the client; Fetch adds none of its own.
	Client *http.Client
}

// Fetch performs a GET and returns the response body. A non-2xx status
// yields an *HTTPStatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	logging.WithContext(ctx).Debug("fetching", logging.URL(url))
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPStatusError{Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
