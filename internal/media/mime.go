package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif", "image/heic", "image/avif"}

// DetectImageType sniffs data and returns its media type. Anything that is not
// one of the accepted image formats is rejected regardless of the declared
// content type.
func DetectImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image is empty")
	}
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("unsupported image type %q", detected.String())
}

// extensionFor returns the file extension for an image media type, including
// the leading dot.
func extensionFor(mediaType string) string {
	if m := mimetype.Lookup(mediaType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		return "." + sub
	}
	return ""
}
