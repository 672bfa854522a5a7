package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/metrics"
)

type uploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

// Service ingests single images and forwards them to the object store.
type Service interface {
	UploadImage(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadResult, error)
}

// UploadInput describes one multipart file part.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploadResult is returned to the caller after a successful upload.
type UploadResult struct {
	URL string `json:"url"`
}

type service struct {
	store    uploader
	folder   string
	maxBytes int64
	metrics  *metrics.DomainMetrics
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build the media service.
type ServiceParams struct {
	Uploader uploader
	Folder   string
	MaxBytes int64
	Metrics  *metrics.DomainMetrics
	Logger   *logger.Logger
}

// NewService constructs the media service.
func NewService(params ServiceParams) (Service, error) {
	if params.Uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	if params.MaxBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	return &service{
		store:    params.Uploader,
		folder:   strings.Trim(params.Folder, "/"),
		maxBytes: params.MaxBytes,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) UploadImage(ctx context.Context, userID uuid.UUID, input UploadInput) (*UploadResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Body == nil {
		return nil, s.reject("No file uploaded", "is required")
	}

	if input.ContentType != "" && !declaredImage(input.ContentType) {
		return nil, s.reject("Only image files are allowed", "must be an image")
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read upload")
	}
	if len(data) == 0 {
		return nil, s.reject("No file uploaded", "is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, s.reject("File too large", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}

	contentType, ext, err := detectImage(data)
	if err != nil {
		return nil, s.reject("Only image files are allowed", "must be an image")
	}

	object := s.objectName(ext)
	url, err := s.store.Upload(ctx, object, contentType, bytes.NewReader(data))
	if err != nil {
		s.metrics.Upload(metrics.UploadFailed)
		return nil, pkgerrors.Upstream(err, "Upload failed")
	}

	s.metrics.Upload(metrics.UploadAccepted)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"object":       object,
			"size":         len(data),
			"content_type": contentType,
		})
		s.logg.Info(logCtx, "media.upload")
	}
	return &UploadResult{URL: url}, nil
}

func (s *service) objectName(ext string) string {
	name := uuid.NewString() + ext
	if s.folder == "" {
		return name
	}
	return path.Join(s.folder, name)
}

func (s *service) reject(message, detail string) error {
	s.metrics.Upload(metrics.UploadRejected)
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]string{"image": detail})
}
