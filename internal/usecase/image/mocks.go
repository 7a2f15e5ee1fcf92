package image

import (
	"context"
	"io"

	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
	"github.com/google/uuid"
)

type mockFetcher struct {
	data     []byte
	mimeType string
	err      error

	calls []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	m.calls = append(m.calls, url)
	if m.err != nil {
		return nil, "", m.err
	}
	return m.data, m.mimeType, nil
}

type mockTranscoder struct {
	out []byte
	err error
	// errOnCall fails only the nth call (1-based) when set
	errOnCall int

	calls []port.FitMode
}

func (m *mockTranscoder) Transcode(r io.Reader, width, height int, fit port.FitMode) ([]byte, error) {
	m.calls = append(m.calls, fit)
	if m.errOnCall != 0 && len(m.calls) == m.errOnCall {
		return nil, m.err
	}
	if m.errOnCall == 0 && m.err != nil {
		return nil, m.err
	}
	return m.out, nil
}

type mockStorage struct {
	exists    bool
	existsErr error
	saveErr   error
	statInfo  port.FileInfo
	statErr   error
	removeErr error

	savedKeys  []string
	savedOpts  []map[string]string
	existsKeys []string
}

func (m *mockStorage) InitBucket(bucket string) error { return nil }
func (m *mockStorage) FileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	m.existsKeys = append(m.existsKeys, fileKey)
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}
func (m *mockStorage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	if m.statErr != nil {
		return port.FileInfo{}, m.statErr
	}
	return m.statInfo, nil
}
func (m *mockStorage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedKeys = append(m.savedKeys, fileKey)
	m.savedOpts = append(m.savedOpts, opts)
	return nil
}
func (m *mockStorage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	return m.removeErr
}
func (m *mockStorage) PublicURL(bucket, fileKey string) string {
	return "https://cdn.devmart.test/" + bucket + "/" + fileKey
}

type mockDeriver struct {
	rec *model.ResponsiveImage
	err error
	// errOnCall fails only the nth call (1-based) when set
	errOnCall int

	calls []port.DeriveImageInput
}

func (m *mockDeriver) DeriveImage(ctx context.Context, in port.DeriveImageInput) (*model.ResponsiveImage, error) {
	m.calls = append(m.calls, in)
	if m.errOnCall != 0 && len(m.calls) == m.errOnCall {
		return nil, m.err
	}
	if m.errOnCall == 0 && m.err != nil {
		return nil, m.err
	}
	rec := *m.rec
	return &rec, nil
}

type mockProjectRepo struct {
	images  []model.ProjectImage
	listErr error

	updateErr error
	updated   []model.ProjectImage
}

func (m *mockProjectRepo) ListProjectImages(ctx context.Context) ([]model.ProjectImage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.images, nil
}
func (m *mockProjectRepo) UpdateProjectImage(ctx context.Context, img *model.ProjectImage) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, *img)
	return nil
}

type mockBlogRepo struct {
	posts   []model.BlogPost
	listErr error

	updateErr error
	updated   map[uuid.UUID]model.Blocks
}

func (m *mockBlogRepo) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.posts, nil
}
func (m *mockBlogRepo) UpdateBlogPostBody(ctx context.Context, id uuid.UUID, body model.Blocks) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[uuid.UUID]model.Blocks)
	}
	m.updated[id] = body
	return nil
}

type mockSectionRepo struct {
	sections []model.PageSection
	listErr  error

	updateErr error
	updated   map[uuid.UUID]model.Blocks
}

func (m *mockSectionRepo) ListPageSections(ctx context.Context) ([]model.PageSection, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sections, nil
}
func (m *mockSectionRepo) UpdatePageSectionContent(ctx context.Context, id uuid.UUID, content model.Blocks) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[uuid.UUID]model.Blocks)
	}
	m.updated[id] = content
	return nil
}
