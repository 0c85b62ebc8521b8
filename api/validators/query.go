package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter. A missing or blank
// value yields fallback; anything non-numeric or outside [min, max] is a
// validation error naming the parameter.
func ParseQueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return 0, queryError(key, "must be a whole number", nil)
	case n < min || n > max:
		return 0, queryError(key, "is out of range", map[string]any{"min": min, "max": max})
	}
	return n, nil
}

// QueryString returns the trimmed value of key, capped at maxLen bytes.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// RequireQueryMaxLen returns the trimmed value of key, rejecting values longer
// than maxLen bytes instead of truncating them.
func RequireQueryMaxLen(r *http.Request, key string, maxLen int) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if maxLen > 0 && len(value) > maxLen {
		return "", queryError(key, "is too long", map[string]any{"max": maxLen})
	}
	return value, nil
}

func queryError(key, problem string, extra map[string]any) error {
	details := map[string]any{"field": key}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeValidation, key+" "+problem).WithDetails(details)
}
