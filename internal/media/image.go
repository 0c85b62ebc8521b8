package media

import (
	"fmt"
	"io"

	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
)

// PrepareImage reads an uploaded image, enforcing maxBytes and sniffing the
// content, and returns it as a base64 data URI ready for Uploader.
func PrepareImage(r io.Reader, maxBytes int64) (string, error) {
	if r == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read image file")
	}
	if int64(len(data)) > maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("image must be at most %d bytes", maxBytes)).
			WithDetails(map[string]any{"imageFile": "too large"})
	}

	mediaType, err := DetectImageType(data)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file must be a PNG, JPEG, WebP, GIF, HEIC or AVIF image").
			WithDetails(map[string]any{"imageFile": err.Error()})
	}
	return EncodeDataURI(mediaType, data), nil
}
