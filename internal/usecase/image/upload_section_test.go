package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/devmart/media-pipeline-go/internal/port"
)

// pngBytes renders a small solid PNG so MIME sniffing sees a real image.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func uploadInput(data []byte) port.UploadSectionImageInput {
	return port.UploadSectionImageInput{
		SectionType: "hero",
		SectionID:   "home-hero",
		FileName:    "banner.png",
		File:        bytes.NewReader(data),
		SizeBytes:   int64(len(data)),
	}
}

func TestUploadSectionImage_TooLargeDeclared(t *testing.T) {
	stg := &mockStorage{}
	tr := &mockTranscoder{}
	svc := NewSectionImageUploader(tr, stg, "media")

	in := uploadInput([]byte("x"))
	in.SizeBytes = MaxSectionUploadSize + 1

	_, err := svc.UploadSectionImage(context.Background(), in)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if len(tr.calls) != 0 || len(stg.savedKeys) != 0 {
		t.Error("expected no transcoding or storage calls for an oversized upload")
	}
}

func TestUploadSectionImage_TooLargeActual(t *testing.T) {
	stg := &mockStorage{}
	svc := NewSectionImageUploader(&mockTranscoder{}, stg, "media")

	big := bytes.Repeat([]byte("a"), MaxSectionUploadSize+10)
	in := uploadInput(big)
	in.SizeBytes = 100 // declared size lies

	_, err := svc.UploadSectionImage(context.Background(), in)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if len(stg.savedKeys) != 0 {
		t.Error("expected no storage calls")
	}
}

func TestUploadSectionImage_DisallowedType(t *testing.T) {
	stg := &mockStorage{}
	svc := NewSectionImageUploader(&mockTranscoder{}, stg, "media")

	_, err := svc.UploadSectionImage(context.Background(), uploadInput([]byte("plain text, not an image")))
	if !errors.Is(err, ErrMimeTypeNotAllowed) {
		t.Fatalf("expected ErrMimeTypeNotAllowed, got %v", err)
	}
	if len(stg.savedKeys) != 0 {
		t.Error("expected no storage calls")
	}
}

func TestUploadSectionImage_TranscodeError(t *testing.T) {
	stg := &mockStorage{}
	tr := &mockTranscoder{err: errors.New("decode fail")}
	svc := NewSectionImageUploader(tr, stg, "media")

	_, err := svc.UploadSectionImage(context.Background(), uploadInput(pngBytes(t, 10, 10)))
	if err == nil || !strings.Contains(err.Error(), "decode fail") {
		t.Fatalf("expected decode fail, got %v", err)
	}
	if len(stg.savedKeys) != 0 {
		t.Error("expected no uploads after transcode failure")
	}
}

func TestUploadSectionImage_SaveError(t *testing.T) {
	stg := &mockStorage{saveErr: errors.New("save fail")}
	tr := &mockTranscoder{out: []byte("webp")}
	svc := NewSectionImageUploader(tr, stg, "media")

	_, err := svc.UploadSectionImage(context.Background(), uploadInput(pngBytes(t, 10, 10)))
	if err == nil || !strings.Contains(err.Error(), "save fail") {
		t.Fatalf("expected save fail, got %v", err)
	}
}

func TestUploadSectionImage_Success(t *testing.T) {
	stg := &mockStorage{}
	tr := &mockTranscoder{out: []byte("webp")}
	svc := NewSectionImageUploader(tr, stg, "media")

	out, err := svc.UploadSectionImage(context.Background(), uploadInput(pngBytes(t, 10, 10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKeys := []string{
		"sections/hero/home-hero-xl.webp",
		"sections/hero/home-hero-lg.webp",
		"sections/hero/home-hero-md.webp",
		"sections/hero/home-hero-sm.webp",
	}
	if len(stg.savedKeys) != len(wantKeys) {
		t.Fatalf("expected %d uploads, got %d", len(wantKeys), len(stg.savedKeys))
	}
	for i, k := range wantKeys {
		if stg.savedKeys[i] != k {
			t.Errorf("upload %d: expected key %q, got %q", i, k, stg.savedKeys[i])
		}
	}

	if len(out.Variants) != 4 {
		t.Fatalf("expected 4 variants in the response, got %d", len(out.Variants))
	}
	if out.Variants[0].Width != 1920 || out.Variants[0].Height != 1080 {
		t.Errorf("unexpected primary variant: %+v", out.Variants[0])
	}
	if out.Image.Src != out.Variants[0].URL {
		t.Errorf("src %q should be the widest variant %q", out.Image.Src, out.Variants[0].URL)
	}
	if out.Image.Width != 1920 || out.Image.Height != 1080 {
		t.Errorf("unexpected record dimensions %dx%d", out.Image.Width, out.Image.Height)
	}

	for _, fit := range tr.calls {
		if fit != port.FitLetterbox {
			t.Errorf("expected letterbox fit for section uploads, got %v", fit)
		}
	}
}
