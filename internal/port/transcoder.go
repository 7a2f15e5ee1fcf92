package port

import "io"

// FitMode governs how a source raster is mapped into a target box.
type FitMode int

const (
	// FitCover scales and centre-crops so the output exactly fills the box.
	FitCover FitMode = iota
	// FitLetterbox scales to fit entirely inside the box and pads the rest
	// with a solid black background.
	FitLetterbox
)

func (f FitMode) String() string {
	if f == FitLetterbox {
		return "letterbox"
	}
	return "cover"
}

// Transcoder resizes a source image into a target box and re-encodes it as
// lossy WebP at a fixed quality.
type Transcoder interface {
	Transcode(r io.Reader, width, height int, fit FitMode) ([]byte, error)
}
