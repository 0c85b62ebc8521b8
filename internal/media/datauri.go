package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var errInvalidDataURI = errors.New("invalid data uri")

// EncodeDataURI renders data as data:<mediaType>;base64,<payload>.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, errInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errInvalidDataURI
	}
	mediaType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" || mediaType == "" {
		return "", nil, errInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", errInvalidDataURI, err)
	}
	return strings.ToLower(mediaType), data, nil
}
