package image

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/devmart/media-pipeline-go/internal/port"
)

// kindConfig binds a Kind to everything the pipeline needs to know about it:
// storage prefix, ordered target boxes, fit policy and the rendering hint.
type kindConfig struct {
	prefix   string
	fit      port.FitMode
	sizes    string
	variants []port.VariantSpec
}

// batch16x9 is the shared 16:9 plan of the batch rewriter. Widths are strictly
// descending: the first entry is always the primary.
var batch16x9 = []port.VariantSpec{
	{Width: 1200, Height: 675},
	{Width: 960, Height: 540},
	{Width: 640, Height: 360},
	{Width: 320, Height: 180},
}

// sectionBoxes is the interactive upload plan. Keys are suffix-addressed so
// the admin editor can replace an image in place (upsert) without the width
// leaking into the URL.
var sectionBoxes = []port.VariantSpec{
	{Width: 1920, Height: 1080, Suffix: "xl"},
	{Width: 1280, Height: 720, Suffix: "lg"},
	{Width: 768, Height: 432, Suffix: "md"},
	{Width: 480, Height: 270, Suffix: "sm"},
}

var kindConfigs = map[port.Kind]kindConfig{
	port.KindProject: {
		prefix:   "projects",
		fit:      port.FitCover,
		sizes:    "(max-width: 768px) 100vw, 50vw",
		variants: batch16x9,
	},
	port.KindBlog: {
		prefix:   "blog",
		fit:      port.FitCover,
		sizes:    "(max-width: 768px) 100vw, 720px",
		variants: batch16x9,
	},
	port.KindSection: {
		prefix:   "sections",
		fit:      port.FitCover,
		sizes:    "100vw",
		variants: batch16x9,
	},
	port.KindSectionUpload: {
		prefix:   "sections",
		fit:      port.FitLetterbox,
		sizes:    "100vw",
		variants: sectionBoxes,
	},
}

// Plan returns the ordered list of target boxes for the given kind. It cannot
// fail: every Kind value has a config entry.
func Plan(kind port.Kind) []port.VariantSpec {
	return kindConfigs[kind].variants
}

// FitFor returns the fit policy of the given kind.
func FitFor(kind port.Kind) port.FitMode {
	return kindConfigs[kind].fit
}

// SizesHint returns the sizes attribute paired with the kind's srcset.
func SizesHint(kind port.Kind) string {
	return kindConfigs[kind].sizes
}

// ObjectKey computes the deterministic storage key of one variant. Identical
// inputs always yield the identical key; that determinism is the basis of the
// skip-if-exists and upsert behaviours.
func ObjectKey(kind port.Kind, slug, basename string, spec port.VariantSpec) string {
	cfg := kindConfigs[kind]
	var name string
	if spec.Suffix != "" {
		name = fmt.Sprintf("%s-%s.webp", basename, spec.Suffix)
	} else {
		name = fmt.Sprintf("%s-%d.webp", basename, spec.Width)
	}
	return strings.ToLower(path.Join(cfg.prefix, slug, name))
}

// SanitizeBasename derives a storage-safe basename from a source URL: the last
// path segment without query, fragment or extension, lower-cased, with
// anything outside [a-z0-9._-] collapsed to '-'.
func SanitizeBasename(rawURL string) string {
	base := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		base = u.Path
	}
	base = path.Base(base)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.ToLower(base)

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "image"
	}
	return out
}
