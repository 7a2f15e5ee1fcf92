package port

import "context"

// SourceFetcher downloads the source image bytes behind a legacy URL.
type SourceFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}
