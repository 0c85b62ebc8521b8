package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/google/uuid"
)

// Uploader hosts an image given as a base64 data URI and returns its secure URL.
type Uploader interface {
	UploadDataURI(ctx context.Context, dataURI string) (string, error)
}

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (string, error)
}

type service struct {
	store  objectStore
	folder string
	newID  func() uuid.UUID
}

// NewService constructs an Uploader that stores images under folder.
func NewService(store objectStore, folder string) (Uploader, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{
		store:  store,
		folder: strings.Trim(strings.TrimSpace(folder), "/"),
		newID:  uuid.New,
	}, nil
}

func (s *service) UploadDataURI(ctx context.Context, dataURI string) (string, error) {
	mediaType, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "Image upload failed")
	}
	if _, err := DetectImageType(data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "Image upload failed")
	}

	object := s.objectName(mediaType)
	secureURL, err := s.store.Upload(ctx, object, mediaType, data)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "Image upload failed")
	}
	return secureURL, nil
}

func (s *service) objectName(mediaType string) string {
	name := s.newID().String() + extensionFor(mediaType)
	if s.folder == "" {
		return name
	}
	return path.Join(s.folder, name)
}

// Disabled is the Uploader used when no media host is configured. Every upload
// fails, so submissions without an image still succeed.
type Disabled struct{}

func (Disabled) UploadDataURI(context.Context, string) (string, error) {
	return "", pkgerrors.New(pkgerrors.CodeUpstream, "Image upload service not available")
}
