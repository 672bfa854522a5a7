package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type stubUploader struct {
	object      string
	contentType string
	body        []byte
	err         error
}

func (s *stubUploader) Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.object = object
	s.contentType = contentType
	s.body, _ = io.ReadAll(body)
	return "https://cdn.example.com/bucket/" + object, nil
}

func newTestService(t *testing.T, up *stubUploader, maxBytes int64) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Uploader: up, Folder: "halisahar-connect/", MaxBytes: maxBytes})
	require.NoError(t, err)
	return svc
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUploadImageSuccess(t *testing.T) {
	up := &stubUploader{}
	svc := newTestService(t, up, 1024)

	res, err := svc.UploadImage(context.Background(), uuid.New(), UploadInput{
		Filename:    "pothole.png",
		ContentType: "image/png",
		Body:        bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.object, "halisahar-connect/"))
	assert.True(t, strings.HasSuffix(up.object, ".png"))
	assert.Equal(t, "image/png", up.contentType)
	assert.Equal(t, pngBytes, up.body)
	assert.Equal(t, "https://cdn.example.com/bucket/"+up.object, res.URL)
}

func TestUploadImageRejectsDeclaredNonImage(t *testing.T) {
	svc := newTestService(t, &stubUploader{}, 1024)
	_, err := svc.UploadImage(context.Background(), uuid.New(), UploadInput{ContentType: "application/pdf", Body: bytes.NewReader(pngBytes)})
	requireValidation(t, err)
}

func TestUploadImageRejectsSniffedNonImage(t *testing.T) {
	svc := newTestService(t, &stubUploader{}, 1024)
	_, err := svc.UploadImage(context.Background(), uuid.New(), UploadInput{ContentType: "image/png", Body: strings.NewReader("just some text")})
	requireValidation(t, err)
}

func TestUploadImageRejectsOversize(t *testing.T) {
	svc := newTestService(t, &stubUploader{}, 16)
	_, err := svc.UploadImage(context.Background(), uuid.New(), UploadInput{Body: bytes.NewReader(pngBytes)})
	requireValidation(t, err)
}

func TestUploadImageRejectsEmpty(t *testing.T) {
	svc := newTestService(t, &stubUploader{}, 1024)
	_, err := svc.UploadImage(context.Background(), uuid.New(), UploadInput{Body: bytes.NewReader(nil)})
	requireValidation(t, err)

	_, err = svc.UploadImage(context.Background(), uuid.New(), UploadInput{})
	requireValidation(t, err)
}

func TestUploadImageUpstreamFailure(t *testing.T) {
	svc := newTestService(t, &stubUploader{err: errors.New("quota exceeded")}, 1024)
	_, err := svc.UploadImage(context.Background(), uuid.New(), UploadInput{Body: bytes.NewReader(pngBytes)})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, map[string]any{"upstream": "quota exceeded"}, typed.Details())
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(ServiceParams{MaxBytes: 1})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Uploader: &stubUploader{}})
	assert.Error(t, err)
}

func TestParseDeclaredType(t *testing.T) {
	got, err := parseDeclaredType(" Image/JPEG; charset=binary ")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", got)

	_, err = parseDeclaredType("")
	assert.Error(t, err)
	assert.False(t, declaredImage("text/plain"))
	assert.True(t, declaredImage("image/webp"))
}

func TestDetectImageRejectsSVG(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	_, _, err := detectImage(svg)
	assert.Error(t, err)

	mediaType, ext, err := detectImage(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, ".png", ext)
}
