package image

import (
	"fmt"
	"strings"
)

// Variant is one published rendition, ready for srcset assembly.
type Variant struct {
	URL    string
	Width  int
	Height int
}

// ComposeSrcset assembles the primary URL and the srcset attribute from the
// variants in production order. The first variant is by construction the
// widest one, so it becomes src.
func ComposeSrcset(variants []Variant) (src, srcset string) {
	if len(variants) == 0 {
		return "", ""
	}
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		parts = append(parts, fmt.Sprintf("%s %dw", v.URL, v.Width))
	}
	return variants[0].URL, strings.Join(parts, ", ")
}
