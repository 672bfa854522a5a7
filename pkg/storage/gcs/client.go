package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
)

const defaultPublicBaseURL = "https://storage.googleapis.com"

// Client uploads objects to a single bucket through the JSON API.
type Client struct {
	svc           *storage.Service
	bucket        string
	publicBaseURL string
	uploadTimeout time.Duration
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient builds a storage client. Credentials come from inline JSON, a
// credentials file, or application default credentials, in that order.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger, extra ...option.ClientOption) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	var opts []option.ClientOption
	switch {
	case gcp.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	case gcp.ApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}
	if gcp.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(gcp.ProjectID))
	}
	opts = append(opts, option.WithScopes(storage.DevstorageReadWriteScope))
	opts = append(opts, extra...)

	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage service: %w", err)
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if base == "" {
		base = defaultPublicBaseURL
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}

	return &Client{
		svc:           svc,
		bucket:        cfg.BucketName,
		publicBaseURL: base,
		uploadTimeout: cfg.UploadTimeout,
	}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// Upload stores the object and returns its public URL. The call is not retried.
func (c *Client) Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	if c == nil || c.svc == nil {
		return "", errors.New("gcs client not initialized")
	}
	if strings.TrimSpace(object) == "" {
		return "", errors.New("object name is required")
	}
	if c.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}

	obj := &storage.Object{Name: object, ContentType: contentType}
	stored, err := c.svc.Objects.Insert(c.bucket, obj).
		Media(body, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	name := object
	if stored != nil && stored.Name != "" {
		name = stored.Name
	}
	return c.PublicURL(name), nil
}

// PublicURL builds the anonymous read URL for an object in the bucket.
func (c *Client) PublicURL(object string) string {
	segments := strings.Split(object, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, strings.Join(segments, "/"))
}

// Ping checks that the bucket is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.svc == nil {
		return errors.New("gcs client not initialized")
	}
	if _, err := c.svc.Buckets.Get(c.bucket).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gcs ping failed: %w", err)
	}
	return nil
}
