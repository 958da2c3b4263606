package clip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"recipeclip/domain"
)

const fetchUserAgent = "recipeclip/0.1"

type (
	// Fetcher retrieves raw page bytes for the extraction pipeline.
	Fetcher interface {
		Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
	}

	httpFetcher struct {
		client *http.Client
	}
)

func NewFetcher() Fetcher {
	return &httpFetcher{client: &http.Client{}}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d while fetching %s", domain.ErrNetworkFailure, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	return body, nil
}
