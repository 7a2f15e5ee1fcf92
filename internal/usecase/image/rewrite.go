package image

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/devmart/media-pipeline-go/internal/logger"
	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
)

// imageBlockFields are the keys of body blocks that may carry an image
// reference, either as a bare URL string or as a ResponsiveImage object.
var imageBlockFields = []string{"image", "cover", "background"}

type contentRewriterSrv struct {
	projects   port.ProjectImageRepository
	posts      port.BlogPostRepository
	sections   port.PageSectionRepository
	deriver    port.ImageDeriver
	publicBase string
	dryRun     bool
}

// compile-time check: *contentRewriterSrv must satisfy port.ContentRewriter
var _ port.ContentRewriter = (*contentRewriterSrv)(nil)

// NewContentRewriter constructs a ContentRewriter implementation. publicBase
// is the URL prefix of durable storage; any reference already under it (with a
// .webp extension) is treated as migrated and left untouched. With dryRun set,
// the rewriter only classifies: nothing is fetched, uploaded or persisted.
func NewContentRewriter(
	projects port.ProjectImageRepository,
	posts port.BlogPostRepository,
	sections port.PageSectionRepository,
	deriver port.ImageDeriver,
	publicBase string,
	dryRun bool,
) port.ContentRewriter {
	return &contentRewriterSrv{projects, posts, sections, deriver, publicBase, dryRun}
}

// alreadyMigrated reports whether a reference points at durable storage with
// the compressed output extension. Such references cost no fetch, no upload
// and no write.
func (s *contentRewriterSrv) alreadyMigrated(url string) bool {
	return strings.HasPrefix(url, s.publicBase) && strings.HasSuffix(strings.ToLower(url), ".webp")
}

// RewriteProjectImages migrates every project gallery row still pointing at a
// legacy URL. Each row is its own entity: one UPDATE per successful migration,
// failures are logged and skipped.
func (s *contentRewriterSrv) RewriteProjectImages(ctx context.Context) (port.RewriteReport, error) {
	var rep port.RewriteReport

	imgs, err := s.projects.ListProjectImages(ctx)
	if err != nil {
		return rep, err
	}
	rep.Entities = len(imgs)

	for i := range imgs {
		img := &imgs[i]
		rep.Scanned++

		if img.URL == "" || s.alreadyMigrated(img.URL) {
			rep.Skipped++
			continue
		}
		if s.dryRun {
			rep.Migrated++
			continue
		}

		rec, err := s.deriver.DeriveImage(ctx, port.DeriveImageInput{
			Kind:      port.KindProject,
			Slug:      img.ProjectSlug,
			Basename:  SanitizeBasename(img.URL),
			SourceURL: img.URL,
			Alt:       img.Alt,
		})
		if err != nil {
			rep.Failed++
			logger.Warnf(ctx, "skipping project image %s: %v", img.ID, err)
			continue
		}
		rep.Migrated++

		img.URL = rec.Src
		img.Srcset = rec.Srcset
		img.Sizes = rec.Sizes
		img.Width = rec.Width
		img.Height = rec.Height
		if err := s.projects.UpdateProjectImage(ctx, img); err != nil {
			rep.Failed++
			logger.Warnf(ctx, "failed persisting project image %s: %v", img.ID, err)
			continue
		}
		rep.Persisted++
	}

	return rep, nil
}

// RewriteBlogPosts migrates image references inside blog post bodies. A post
// is written back once, and only when at least one block was rewritten.
func (s *contentRewriterSrv) RewriteBlogPosts(ctx context.Context) (port.RewriteReport, error) {
	var rep port.RewriteReport

	posts, err := s.posts.ListBlogPosts(ctx)
	if err != nil {
		return rep, err
	}
	rep.Entities = len(posts)

	for i := range posts {
		p := &posts[i]
		if !s.rewriteBlocks(ctx, port.KindBlog, p.Slug, p.Body, &rep) {
			continue
		}
		if err := s.posts.UpdateBlogPostBody(ctx, p.ID, p.Body); err != nil {
			rep.Failed++
			logger.Warnf(ctx, "failed persisting blog post %q: %v", p.Slug, err)
			continue
		}
		rep.Persisted++
	}

	return rep, nil
}

// RewritePageSections migrates image references inside page section documents,
// same write-once-per-entity policy as blog posts.
func (s *contentRewriterSrv) RewritePageSections(ctx context.Context) (port.RewriteReport, error) {
	var rep port.RewriteReport

	sections, err := s.sections.ListPageSections(ctx)
	if err != nil {
		return rep, err
	}
	rep.Entities = len(sections)

	for i := range sections {
		sec := &sections[i]
		if !s.rewriteBlocks(ctx, port.KindSection, sec.Page, sec.Content, &rep) {
			continue
		}
		if err := s.sections.UpdatePageSectionContent(ctx, sec.ID, sec.Content); err != nil {
			rep.Failed++
			logger.Warnf(ctx, "failed persisting page section %s: %v", sec.ID, err)
			continue
		}
		rep.Persisted++
	}

	return rep, nil
}

// rewriteBlocks stages replacements for every migratable image field in the
// given blocks, mutating them in place. One image's failure never aborts its
// siblings. Returns whether anything was staged.
func (s *contentRewriterSrv) rewriteBlocks(ctx context.Context, kind port.Kind, slug string, blocks model.Blocks, rep *port.RewriteReport) bool {
	changed := false
	for bi := range blocks {
		data := blocks[bi].Data
		for _, field := range imageBlockFields {
			raw, ok := data[field]
			if !ok {
				continue
			}
			url, alt, ok := imageRef(raw)
			if !ok {
				continue
			}
			rep.Scanned++

			if url == "" || s.alreadyMigrated(url) {
				rep.Skipped++
				continue
			}
			if s.dryRun {
				rep.Migrated++
				continue
			}

			rec, err := s.deriver.DeriveImage(ctx, port.DeriveImageInput{
				Kind:      kind,
				Slug:      slug,
				Basename:  SanitizeBasename(url),
				SourceURL: url,
				Alt:       alt,
			})
			if err != nil {
				rep.Failed++
				logger.Warnf(ctx, "skipping %s block image in %q: %v", blocks[bi].Type, slug, err)
				continue
			}
			rep.Migrated++

			enc, err := json.Marshal(rec)
			if err != nil {
				rep.Failed++
				continue
			}
			data[field] = enc
			changed = true
		}
	}
	return changed
}

// imageRef extracts the source URL and alt text from an image field, which can
// be a bare URL string or a record-shaped object.
func imageRef(raw json.RawMessage) (url, alt string, ok bool) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, "", true
	}

	var obj struct {
		Src string `json:"src"`
		URL string `json:"url"`
		Alt string `json:"alt"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", "", false
	}
	if obj.Src != "" {
		return obj.Src, obj.Alt, true
	}
	if obj.URL != "" {
		return obj.URL, obj.Alt, true
	}
	return "", "", false
}
