package image

// MaxSectionUploadSize caps interactive uploads at 1.5 MB.
const MaxSectionUploadSize = 1536 * 1024

// CacheControlImmutable is set on every published variant: keys are
// deterministic, so a published object never changes under the same URL.
const CacheControlImmutable = "public, max-age=31536000, immutable"

const WebPContentType = "image/webp"

var AllowedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

func IsMimeTypeAllowed(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}
