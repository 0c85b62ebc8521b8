package media

import (
	"bytes"
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type stubStore struct {
	object      string
	contentType string
	data        []byte
	url         string
	err         error
}

func (s *stubStore) Upload(ctx context.Context, object, contentType string, data []byte) (string, error) {
	s.object = object
	s.contentType = contentType
	s.data = data
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func TestDataURIRoundTrip(t *testing.T) {
	uri := EncodeDataURI("image/png", pngHeader)
	assert.True(t, bytes.HasPrefix([]byte(uri), []byte("data:image/png;base64,")))

	mediaType, data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, pngHeader, data)
}

func TestDecodeDataURIRejectsMalformed(t *testing.T) {
	for _, uri := range []string{"", "image/png;base64,AAAA", "data:image/png,AAAA", "data:image/png;base64", "data:;base64,AAAA", "data:image/png;base64,!!!"} {
		_, _, err := DecodeDataURI(uri)
		assert.Error(t, err, uri)
	}
}

func TestPrepareImage(t *testing.T) {
	uri, err := PrepareImage(bytes.NewReader(pngHeader), 1024)
	require.NoError(t, err)
	assert.Equal(t, EncodeDataURI("image/png", pngHeader), uri)
}

func TestPrepareImageRejectsOversize(t *testing.T) {
	_, err := PrepareImage(bytes.NewReader(pngHeader), 4)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPrepareImageRejectsNonImage(t *testing.T) {
	_, err := PrepareImage(bytes.NewReader([]byte("%PDF-1.7\n1 0 obj")), 1024)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUploadDataURIStoresUnderFolder(t *testing.T) {
	store := &stubStore{url: "https://storage.googleapis.com/bucket/eat-wise-app/x.png"}
	up, err := NewService(store, "/eat-wise-app/")
	require.NoError(t, err)
	fixed := uuid.MustParse("6f1c2a59-0000-4000-8000-000000000001")
	up.(*service).newID = func() uuid.UUID { return fixed }

	got, err := up.UploadDataURI(context.Background(), EncodeDataURI("image/png", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, store.url, got)
	assert.Equal(t, "eat-wise-app/"+fixed.String()+".png", store.object)
	assert.Equal(t, "image/png", store.contentType)
	assert.Equal(t, pngHeader, store.data)
}

func TestUploadDataURIMapsFailuresToUpstream(t *testing.T) {
	up, err := NewService(&stubStore{err: errors.New("503 from storage")}, "")
	require.NoError(t, err)

	_, err = up.UploadDataURI(context.Background(), EncodeDataURI("image/png", pngHeader))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpstream))

	_, err = up.UploadDataURI(context.Background(), "not-a-data-uri")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpstream))
}

func TestDisabledUploaderFails(t *testing.T) {
	_, err := Disabled{}.UploadDataURI(context.Background(), "data:image/png;base64,AA==")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpstream))
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil, "x")
	require.Error(t, err)
}
