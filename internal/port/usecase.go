package port

import (
	"context"
	"io"

	"github.com/devmart/media-pipeline-go/internal/model"
)

// Kind selects the variant plan, storage prefix and fit mode of a derivation.
// It is a closed enum so a typo can never silently select an empty plan.
type Kind int

const (
	KindProject Kind = iota
	KindBlog
	KindSection
	// KindSectionUpload is the interactive admin surface: same 16:9 family
	// as KindSection but letterboxed and suffix-addressed for upserts.
	KindSectionUpload
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "projects"
	case KindBlog:
		return "blog"
	case KindSection:
		return "sections"
	case KindSectionUpload:
		return "section-upload"
	default:
		return "unknown"
	}
}

// VariantSpec is one target box of a variant plan. Suffix is only set for
// kinds whose storage keys are suffix-addressed rather than width-addressed.
type VariantSpec struct {
	Width  int
	Height int
	Suffix string
}

// ImageDeriver runs one source image through the full pipeline: fetch, plan,
// transcode, publish, compose.
type ImageDeriver interface {
	DeriveImage(ctx context.Context, in DeriveImageInput) (*model.ResponsiveImage, error)
}

type DeriveImageInput struct {
	Kind      Kind
	Slug      string
	Basename  string
	SourceURL string
	Alt       string
}

// RewriteReport summarises one rewriter pass over a single entity type.
type RewriteReport struct {
	Entities  int `json:"entities"`
	Scanned   int `json:"scanned"`
	Migrated  int `json:"migrated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Persisted int `json:"persisted"`
}

func (r *RewriteReport) Add(other RewriteReport) {
	r.Entities += other.Entities
	r.Scanned += other.Scanned
	r.Migrated += other.Migrated
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Persisted += other.Persisted
}

// ContentRewriter walks stored content and migrates every legacy image
// reference through the pipeline. Each method scans one entity type once;
// re-invocation is manual and idempotent.
type ContentRewriter interface {
	RewriteProjectImages(ctx context.Context) (RewriteReport, error)
	RewriteBlogPosts(ctx context.Context) (RewriteReport, error)
	RewritePageSections(ctx context.Context) (RewriteReport, error)
}

// SectionImageUploader serves the interactive admin upload: validate, letterbox
// into the fixed section boxes, upsert-publish, respond.
type SectionImageUploader interface {
	UploadSectionImage(ctx context.Context, in UploadSectionImageInput) (*UploadSectionImageOutput, error)
}

type UploadSectionImageInput struct {
	SectionType string
	SectionID   string
	FileName    string
	File        io.Reader
	SizeBytes   int64
}

type SectionVariantOutput struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type UploadSectionImageOutput struct {
	Image    model.ResponsiveImage  `json:"image"`
	Variants []SectionVariantOutput `json:"variants"`
}
