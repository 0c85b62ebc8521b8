package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
)

// multipartOverhead is allowed on top of the file cap for the text fields.
const multipartOverhead = 1 << 20

// ParseMultipartForm bounds the request body and parses it. Bodies beyond the
// cap and malformed forms are validation errors.
func ParseMultipartForm(w http.ResponseWriter, r *http.Request, maxFileBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxFileBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
				WithDetails(map[string]any{"maxBytes": maxFileBytes})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormString returns the trimmed first value of key.
func FormString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// FormStrings returns every non-blank value submitted for key.
func FormStrings(r *http.Request, key string) []string {
	if r.MultipartForm == nil {
		return nil
	}
	out := []string{}
	for _, v := range r.MultipartForm.Value[key] {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FormFile returns the uploaded file for key, or nil when none was sent.
// An empty file part counts as absent.
func FormFile(r *http.Request, key string) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[key]) == 0 {
		return nil, nil
	}
	fh := r.MultipartForm.File[key][0]
	if fh.Size == 0 {
		return nil, nil
	}
	return fh, nil
}
