package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fetchUserAgent = "CookClubParser/1.0 (+https://github.com/ejjsharpe/cook-club-sub004)"

// PageFetcher is the content acquirer: a single HTTP GET per call, no
// retries. Retry policy, if any, belongs to the caller.
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a PageFetcher with the given request timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	return &PageFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the document at url. Non-2xx responses and transport
// failures both come back as plain errors; an empty or whitespace-only body
// is reported as ErrNoContent.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d (%s) for %s", resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if strings.TrimSpace(string(body)) == "" {
		return "", ErrNoContent
	}

	return string(body), nil
}
