package announce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"

	"github.com/go-mkbot/mkcore/internal/cache"
)

// ErrDisabled is returned when no announcement URL is configured.
var ErrDisabled = errors.New("announce: no url configured")

const (
	cacheKey = "announcement"
	cacheTTL = 5 * time.Minute

	maxBodySize = 1 << 20 // 1 MiB

	retryDelay = 500 * time.Millisecond
)

// Fetcher relays announcement text from an upstream panel. Responses
// are cached so chat traffic cannot hammer the upstream.
type Fetcher struct {
	url     string
	client  *http.Client
	retries int
	cache   cache.Cache[string]
}

func NewFetcher(url string, timeout time.Duration, retries int, c cache.Cache[string]) (*Fetcher, error) {
	if retries < 1 {
		retries = 1
	}
	if c == nil {
		c = cache.NewMemory[string]()
	}

	client, err := httpclient.NewClient(
		httpclient.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return &Fetcher{
		url:     url,
		client:  client,
		retries: retries,
		cache:   c,
	}, nil
}

// Fetch returns the current announcement text.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if f.url == "" {
		return "", ErrDisabled
	}

	return cache.Fetch(ctx, f.cache, cacheKey, cacheTTL,
		func(ctx context.Context) (string, error) {
			return f.fetchUpstream(ctx)
		})
}

func (f *Fetcher) fetchUpstream(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		body, err := f.doRequest(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("announcement fetch failed after %d attempts: %w", f.retries, lastErr)
}

func (f *Fetcher) doRequest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
