package image

import (
	"bytes"
	"context"
	"fmt"

	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
)

type imageDeriverSrv struct {
	fetcher port.SourceFetcher
	trans   port.Transcoder
	strg    port.Storage
	bucket  string
}

// compile-time check: *imageDeriverSrv must satisfy port.ImageDeriver
var _ port.ImageDeriver = (*imageDeriverSrv)(nil)

// NewImageDeriver constructs an ImageDeriver implementation.
func NewImageDeriver(fetcher port.SourceFetcher, trans port.Transcoder, strg port.Storage, bucket string) port.ImageDeriver {
	return &imageDeriverSrv{fetcher, trans, strg, bucket}
}

// DeriveImage fetches the source once, then produces every planned variant in
// descending-width order. A variant whose deterministic key already exists is
// not re-encoded or re-uploaded, which makes interrupted runs resumable.
func (s *imageDeriverSrv) DeriveImage(ctx context.Context, in port.DeriveImageInput) (*model.ResponsiveImage, error) {
	specs := Plan(in.Kind)
	fit := FitFor(in.Kind)

	data, _, err := s.fetcher.Fetch(ctx, in.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source %q: %w", in.SourceURL, err)
	}

	variants := make([]Variant, 0, len(specs))
	for _, spec := range specs {
		key := ObjectKey(in.Kind, in.Slug, in.Basename, spec)

		exists, err := s.strg.FileExists(ctx, s.bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed checking variant %q: %w", key, err)
		}
		if !exists {
			out, err := s.trans.Transcode(bytes.NewReader(data), spec.Width, spec.Height, fit)
			if err != nil {
				return nil, fmt.Errorf("failed to transcode variant %q: %w", key, err)
			}
			opts := map[string]string{
				"Content-Type":  WebPContentType,
				"Cache-Control": CacheControlImmutable,
			}
			if err := s.strg.SaveFile(ctx, s.bucket, key, bytes.NewReader(out), int64(len(out)), opts); err != nil {
				return nil, fmt.Errorf("failed to save variant %q: %w", key, err)
			}
		}

		variants = append(variants, Variant{
			URL:    s.strg.PublicURL(s.bucket, key),
			Width:  spec.Width,
			Height: spec.Height,
		})
	}

	src, srcset := ComposeSrcset(variants)
	return &model.ResponsiveImage{
		Src:    src,
		Srcset: srcset,
		Sizes:  SizesHint(in.Kind),
		Alt:    in.Alt,
		Width:  specs[0].Width,
		Height: specs[0].Height,
	}, nil
}
