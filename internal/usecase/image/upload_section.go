package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
)

type sectionUploaderSrv struct {
	trans  port.Transcoder
	strg   port.Storage
	bucket string
}

// compile-time check: *sectionUploaderSrv must satisfy port.SectionImageUploader
var _ port.SectionImageUploader = (*sectionUploaderSrv)(nil)

// NewSectionImageUploader constructs a SectionImageUploader implementation.
func NewSectionImageUploader(trans port.Transcoder, strg port.Storage, bucket string) port.SectionImageUploader {
	return &sectionUploaderSrv{trans, strg, bucket}
}

// UploadSectionImage validates the upload, letterboxes it into the four fixed
// section boxes and upsert-publishes them under suffix-addressed keys. All
// validation happens before any transcoding or storage call; any later stage
// failure aborts the whole request with no partial variant list.
func (s *sectionUploaderSrv) UploadSectionImage(ctx context.Context, in port.UploadSectionImageInput) (*port.UploadSectionImageOutput, error) {
	if in.SizeBytes > MaxSectionUploadSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(in.File, MaxSectionUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed reading upload: %w", err)
	}
	if len(data) > MaxSectionUploadSize {
		return nil, ErrFileTooLarge
	}

	// Trust the sniffed type, not the client-declared one.
	mimeType := http.DetectContentType(data)
	if !IsMimeTypeAllowed(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrMimeTypeNotAllowed, mimeType)
	}

	specs := Plan(port.KindSectionUpload)
	fit := FitFor(port.KindSectionUpload)

	variants := make([]Variant, 0, len(specs))
	for _, spec := range specs {
		out, err := s.trans.Transcode(bytes.NewReader(data), spec.Width, spec.Height, fit)
		if err != nil {
			return nil, fmt.Errorf("failed to transcode %q box: %w", spec.Suffix, err)
		}

		key := ObjectKey(port.KindSectionUpload, in.SectionType, in.SectionID, spec)
		opts := map[string]string{
			"Content-Type":  WebPContentType,
			"Cache-Control": CacheControlImmutable,
		}
		if err := s.strg.SaveFile(ctx, s.bucket, key, bytes.NewReader(out), int64(len(out)), opts); err != nil {
			return nil, fmt.Errorf("failed to save variant %q: %w", key, err)
		}

		variants = append(variants, Variant{
			URL:    s.strg.PublicURL(s.bucket, key),
			Width:  spec.Width,
			Height: spec.Height,
		})
	}

	src, srcset := ComposeSrcset(variants)

	out := &port.UploadSectionImageOutput{
		Image: model.ResponsiveImage{
			Src:    src,
			Srcset: srcset,
			Sizes:  SizesHint(port.KindSectionUpload),
			Alt:    "",
			Width:  specs[0].Width,
			Height: specs[0].Height,
		},
		Variants: make([]port.SectionVariantOutput, 0, len(variants)),
	}
	for _, v := range variants {
		out.Variants = append(out.Variants, port.SectionVariantOutput{URL: v.URL, Width: v.Width, Height: v.Height})
	}
	return out, nil
}
