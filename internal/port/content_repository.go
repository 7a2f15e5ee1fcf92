package port

import (
	"context"

	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/google/uuid"
)

// ProjectImageRepository defines persistence operations for project gallery rows.
type ProjectImageRepository interface {
	ListProjectImages(ctx context.Context) ([]model.ProjectImage, error)
	UpdateProjectImage(ctx context.Context, img *model.ProjectImage) error
}

// BlogPostRepository defines persistence operations for blog post bodies.
type BlogPostRepository interface {
	ListBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	UpdateBlogPostBody(ctx context.Context, id uuid.UUID, body model.Blocks) error
}

// PageSectionRepository defines persistence operations for page section documents.
type PageSectionRepository interface {
	ListPageSections(ctx context.Context) ([]model.PageSection, error)
	UpdatePageSectionContent(ctx context.Context, id uuid.UUID, content model.Blocks) error
}

// ProfileRepository resolves authenticated subjects to admin-panel profiles.
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}
