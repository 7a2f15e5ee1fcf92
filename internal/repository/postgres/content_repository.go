package postgres

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/devmart/media-pipeline-go/internal/db"
	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
)

// ContentRepository persists the CMS content entities the rewriter walks.
type ContentRepository struct {
	db *db.Database
}

// compile-time checks
var (
	_ port.ProjectImageRepository = (*ContentRepository)(nil)
	_ port.BlogPostRepository     = (*ContentRepository)(nil)
	_ port.PageSectionRepository  = (*ContentRepository)(nil)
)

func NewContentRepository(database *db.Database) *ContentRepository {
	return &ContentRepository{db: database}
}

func (r *ContentRepository) ListProjectImages(ctx context.Context) ([]model.ProjectImage, error) {
	log.Println("fetching project images from the database...")

	const query = `
      SELECT pi.id, pi.project_id, p.slug, pi.url, pi.alt, pi.srcset, pi.sizes, pi.width, pi.height, pi.position
      FROM project_images pi
      JOIN projects p ON p.id = pi.project_id
      ORDER BY p.slug, pi.position
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []model.ProjectImage
	for rows.Next() {
		var img model.ProjectImage
		if err := rows.Scan(
			&img.ID, &img.ProjectID, &img.ProjectSlug,
			&img.URL, &img.Alt, &img.Srcset, &img.Sizes,
			&img.Width, &img.Height, &img.Position,
		); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *ContentRepository) UpdateProjectImage(ctx context.Context, img *model.ProjectImage) error {
	log.Printf("updating project image #%s...", img.ID)

	const query = `
      UPDATE project_images
      SET
        url    = $1,
        alt    = $2,
        srcset = $3,
        sizes  = $4,
        width  = $5,
        height = $6
      WHERE id = $7
    `
	_, err := r.db.Exec(ctx, query,
		img.URL, img.Alt, img.Srcset, img.Sizes,
		img.Width, img.Height,
		img.ID,
	)
	return err
}

func (r *ContentRepository) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	log.Println("fetching blog posts from the database...")

	const query = `
      SELECT id, slug, title, body, updated_at
      FROM blog_posts
      ORDER BY slug
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		var p model.BlogPost
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *ContentRepository) UpdateBlogPostBody(ctx context.Context, id uuid.UUID, body model.Blocks) error {
	log.Printf("updating blog post #%s body...", id)

	const query = `UPDATE blog_posts SET body = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, body, id)
	return err
}

func (r *ContentRepository) ListPageSections(ctx context.Context) ([]model.PageSection, error) {
	log.Println("fetching page sections from the database...")

	const query = `
      SELECT id, page, section_type, position, content
      FROM page_sections
      ORDER BY page, position
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.PageSection
	for rows.Next() {
		var s model.PageSection
		if err := rows.Scan(&s.ID, &s.Page, &s.SectionType, &s.Position, &s.Content); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *ContentRepository) UpdatePageSectionContent(ctx context.Context, id uuid.UUID, content model.Blocks) error {
	log.Printf("updating page section #%s content...", id)

	const query = `UPDATE page_sections SET content = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, content, id)
	return err
}
