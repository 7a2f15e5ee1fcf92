package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxSourceSize caps how much of a legacy source image is read; anything
// larger is not worth deriving variants from.
const maxSourceSize = 32 << 20 // 32 MiB

// HTTPFetcher downloads source images from their legacy URLs.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the bytes behind url and returns them with the declared
// content type. A non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetcher: invalid source URL %q: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetcher: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetcher: source returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("fetcher: failed reading body: %w", err)
	}
	if len(data) > maxSourceSize {
		return nil, "", fmt.Errorf("fetcher: source larger than %d bytes", maxSourceSize)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
