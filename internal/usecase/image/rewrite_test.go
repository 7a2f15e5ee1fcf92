package image

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/devmart/media-pipeline-go/internal/model"
	"github.com/devmart/media-pipeline-go/internal/port"
	"github.com/google/uuid"
)

const testPublicBase = "https://cdn.devmart.test/media"

func migratedRecord() *model.ResponsiveImage {
	return &model.ResponsiveImage{
		Src:    testPublicBase + "/projects/acme/hero-1200.webp",
		Srcset: testPublicBase + "/projects/acme/hero-1200.webp 1200w, " + testPublicBase + "/projects/acme/hero-640.webp 640w",
		Sizes:  "100vw",
		Width:  1200,
		Height: 675,
	}
}

func urlBlock(blockType, field, url string) model.Block {
	raw, _ := json.Marshal(url)
	return model.Block{Type: blockType, Data: map[string]json.RawMessage{field: raw}}
}

func TestRewriteProjectImages_ListError(t *testing.T) {
	repo := &mockProjectRepo{listErr: errors.New("db fail")}
	svc := NewContentRewriter(repo, &mockBlogRepo{}, &mockSectionRepo{}, &mockDeriver{}, testPublicBase, false)

	_, err := svc.RewriteProjectImages(context.Background())
	if err == nil || err.Error() != "db fail" {
		t.Fatalf("expected db fail, got %v", err)
	}
}

func TestRewriteProjectImages_SkipsMigrated(t *testing.T) {
	repo := &mockProjectRepo{images: []model.ProjectImage{
		{ID: uuid.New(), ProjectSlug: "acme", URL: testPublicBase + "/projects/acme/hero-1200.webp"},
		{ID: uuid.New(), ProjectSlug: "acme", URL: ""},
	}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(repo, &mockBlogRepo{}, &mockSectionRepo{}, d, testPublicBase, false)

	rep, err := svc.RewriteProjectImages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.calls) != 0 {
		t.Errorf("expected zero pipeline invocations, got %d", len(d.calls))
	}
	if len(repo.updated) != 0 {
		t.Errorf("expected zero writes, got %d", len(repo.updated))
	}
	if rep.Skipped != 2 || rep.Migrated != 0 {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestRewriteProjectImages_Migrates(t *testing.T) {
	id := uuid.New()
	repo := &mockProjectRepo{images: []model.ProjectImage{
		{ID: id, ProjectSlug: "acme", URL: "https://legacy.example.com/hero.jpg", Alt: "Hero"},
	}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(repo, &mockBlogRepo{}, &mockSectionRepo{}, d, testPublicBase, false)

	rep, err := svc.RewriteProjectImages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Migrated != 1 || rep.Persisted != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected 1 write, got %d", len(repo.updated))
	}
	got := repo.updated[0]
	if got.URL != migratedRecord().Src || got.Srcset == "" || got.Width != 1200 || got.Height != 675 {
		t.Errorf("row not rewritten with record: %+v", got)
	}
	if len(d.calls) != 1 {
		t.Fatalf("expected 1 derivation, got %d", len(d.calls))
	}
	in := d.calls[0]
	if in.Kind != port.KindProject || in.Slug != "acme" || in.Alt != "Hero" {
		t.Errorf("unexpected derive input: %+v", in)
	}
}

func TestRewriteProjectImages_PersistFailureDoesNotAbort(t *testing.T) {
	repo := &mockProjectRepo{
		images: []model.ProjectImage{
			{ID: uuid.New(), ProjectSlug: "a", URL: "https://legacy.example.com/1.jpg"},
			{ID: uuid.New(), ProjectSlug: "b", URL: "https://legacy.example.com/2.jpg"},
		},
		updateErr: errors.New("write fail"),
	}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(repo, &mockBlogRepo{}, &mockSectionRepo{}, d, testPublicBase, false)

	rep, err := svc.RewriteProjectImages(context.Background())
	if err != nil {
		t.Fatalf("run should not abort on a row write failure: %v", err)
	}
	if rep.Persisted != 0 || rep.Failed != 2 {
		t.Errorf("unexpected report: %+v", rep)
	}
	if len(d.calls) != 2 {
		t.Errorf("expected both rows processed, got %d derivations", len(d.calls))
	}
}

func TestRewriteBlogPosts_PartialFailureIsolation(t *testing.T) {
	id := uuid.New()
	repo := &mockBlogRepo{posts: []model.BlogPost{{
		ID:   id,
		Slug: "launch-post",
		Body: model.Blocks{
			urlBlock("hero", "image", "https://legacy.example.com/1.jpg"),
			urlBlock("gallery", "image", "https://legacy.example.com/2.jpg"),
			urlBlock("footer", "image", "https://legacy.example.com/3.jpg"),
		},
	}}}
	d := &mockDeriver{rec: migratedRecord(), err: errors.New("decode fail"), errOnCall: 2}
	svc := NewContentRewriter(&mockProjectRepo{}, repo, &mockSectionRepo{}, d, testPublicBase, false)

	rep, err := svc.RewriteBlogPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Migrated != 2 || rep.Failed != 1 || rep.Persisted != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	body, ok := repo.updated[id]
	if !ok {
		t.Fatal("expected the post to be persisted with the two staged replacements")
	}

	var first model.ResponsiveImage
	if err := json.Unmarshal(body[0].Data["image"], &first); err != nil || first.Src != migratedRecord().Src {
		t.Errorf("first block not rewritten: %s", body[0].Data["image"])
	}
	var second string
	if err := json.Unmarshal(body[1].Data["image"], &second); err != nil || second != "https://legacy.example.com/2.jpg" {
		t.Errorf("failed block should keep its original reference: %s", body[1].Data["image"])
	}
	var third model.ResponsiveImage
	if err := json.Unmarshal(body[2].Data["image"], &third); err != nil || third.Src != migratedRecord().Src {
		t.Errorf("third block not rewritten: %s", body[2].Data["image"])
	}
}

func TestRewriteBlogPosts_NoOpWriteAvoided(t *testing.T) {
	repo := &mockBlogRepo{posts: []model.BlogPost{{
		ID:   uuid.New(),
		Slug: "old-post",
		Body: model.Blocks{
			urlBlock("hero", "image", testPublicBase+"/blog/old-post/hero-1200.webp"),
			{Type: "text", Data: map[string]json.RawMessage{"html": json.RawMessage(`"<p>hi</p>"`)}},
		},
	}}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(&mockProjectRepo{}, repo, &mockSectionRepo{}, d, testPublicBase, false)

	rep, err := svc.RewriteBlogPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.updated) != 0 {
		t.Error("expected no write for an entity with zero staged changes")
	}
	if len(d.calls) != 0 {
		t.Error("expected no pipeline invocations")
	}
	if rep.Skipped != 1 {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestRewriteBlogPosts_RecordShapedReference(t *testing.T) {
	rec := map[string]any{"src": "https://legacy.example.com/old.png", "alt": "Old", "width": 800}
	raw, _ := json.Marshal(rec)
	id := uuid.New()
	repo := &mockBlogRepo{posts: []model.BlogPost{{
		ID:   id,
		Slug: "post",
		Body: model.Blocks{{Type: "hero", Data: map[string]json.RawMessage{"cover": raw}}},
	}}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(&mockProjectRepo{}, repo, &mockSectionRepo{}, d, testPublicBase, false)

	if _, err := svc.RewriteBlogPosts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.calls) != 1 {
		t.Fatalf("expected 1 derivation, got %d", len(d.calls))
	}
	if d.calls[0].SourceURL != "https://legacy.example.com/old.png" || d.calls[0].Alt != "Old" {
		t.Errorf("unexpected derive input: %+v", d.calls[0])
	}
	if _, ok := repo.updated[id]; !ok {
		t.Error("expected the post to be persisted")
	}
}

func TestRewritePageSections_Migrates(t *testing.T) {
	id := uuid.New()
	repo := &mockSectionRepo{sections: []model.PageSection{{
		ID:          id,
		Page:        "home",
		SectionType: "hero",
		Content:     model.Blocks{urlBlock("hero", "background", "https://legacy.example.com/bg.jpg")},
	}}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(&mockProjectRepo{}, &mockBlogRepo{}, repo, d, testPublicBase, false)

	rep, err := svc.RewritePageSections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Migrated != 1 || rep.Persisted != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if d.calls[0].Kind != port.KindSection || d.calls[0].Slug != "home" {
		t.Errorf("unexpected derive input: %+v", d.calls[0])
	}
	if _, ok := repo.updated[id]; !ok {
		t.Error("expected the section to be persisted")
	}
}

func TestRewrite_SecondRunIsIdempotent(t *testing.T) {
	repo := &mockProjectRepo{images: []model.ProjectImage{
		{ID: uuid.New(), ProjectSlug: "acme", URL: "https://legacy.example.com/hero.jpg"},
	}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(repo, &mockBlogRepo{}, &mockSectionRepo{}, d, testPublicBase, false)

	if _, err := svc.RewriteProjectImages(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("first run should persist once, got %d", len(repo.updated))
	}

	// second run over the rewritten state
	repo2 := &mockProjectRepo{images: repo.updated}
	d2 := &mockDeriver{rec: migratedRecord()}
	svc2 := NewContentRewriter(repo2, &mockBlogRepo{}, &mockSectionRepo{}, d2, testPublicBase, false)

	rep, err := svc2.RewriteProjectImages(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(d2.calls) != 0 {
		t.Errorf("second run performed %d pipeline invocations, expected 0", len(d2.calls))
	}
	if len(repo2.updated) != 0 {
		t.Errorf("second run performed %d writes, expected 0", len(repo2.updated))
	}
	if rep.Skipped != 1 {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestRewriteProjectImages_DryRun(t *testing.T) {
	repo := &mockProjectRepo{images: []model.ProjectImage{
		{ID: uuid.New(), ProjectSlug: "acme", URL: "https://legacy.example.com/hero.jpg"},
	}}
	d := &mockDeriver{rec: migratedRecord()}
	svc := NewContentRewriter(repo, &mockBlogRepo{}, &mockSectionRepo{}, d, testPublicBase, true)

	rep, err := svc.RewriteProjectImages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.calls) != 0 || len(repo.updated) != 0 {
		t.Error("dry run must not derive or persist anything")
	}
	if rep.Migrated != 1 {
		t.Errorf("dry run should report would-migrate count: %+v", rep)
	}
}
