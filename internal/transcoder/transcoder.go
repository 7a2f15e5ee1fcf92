package transcoder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/devmart/media-pipeline-go/internal/port"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Quality is the fixed lossy WebP quality of every produced variant.
const Quality = 80

type WebPTranscoder struct{}

// compile-time check: *WebPTranscoder must satisfy port.Transcoder
var _ port.Transcoder = (*WebPTranscoder)(nil)

func NewWebPTranscoder() *WebPTranscoder {
	return &WebPTranscoder{}
}

// Transcode decodes the source (JPEG, PNG or WebP), maps it into the target
// box according to fit, and re-encodes it as lossy WebP.
//   - cover: scale and centre-crop so the output exactly fills the box.
//   - letterbox: scale to fit inside the box, centred on a black canvas.
func (t *WebPTranscoder) Transcode(r io.Reader, width, height int, fit port.FitMode) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("transcoder: failed to decode image: %w", err)
	}

	var out image.Image
	switch fit {
	case port.FitLetterbox:
		fitted := imaging.Fit(src, width, height, imaging.Lanczos)
		canvas := imaging.New(width, height, color.NRGBA{A: 255})
		out = imaging.PasteCenter(canvas, fitted)
	default:
		out = imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)
	}

	buf := &bytes.Buffer{}
	if err := webp.Encode(buf, out, &webp.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("transcoder: failed to encode WebP: %w", err)
	}
	return buf.Bytes(), nil
}
