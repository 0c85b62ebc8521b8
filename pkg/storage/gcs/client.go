package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/logger"
)

const (
	storageAPIBase  = "https://storage.googleapis.com"
	requestTimeout  = 30 * time.Second
	pingTimeout     = 5 * time.Second
	maxErrorBodyLen = 2048
)

var errNotInitialized = errors.New("gcs client not initialized")

// Client uploads food images to one bucket through the Cloud Storage JSON API.
type Client struct {
	httpClient  *http.Client
	bucket      string
	apiBase     string
	publicBase  string
	tokenSource *tokenSource
}

// NewClient resolves credentials and verifies bucket access before returning.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	ts, err := resolveTokenSource(httpClient, gcp)
	if err != nil {
		return nil, err
	}

	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = storageAPIBase
	}

	client := &Client{
		httpClient:  httpClient,
		bucket:      cfg.BucketName,
		apiBase:     storageAPIBase,
		publicBase:  publicBase,
		tokenSource: ts,
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

// PublicURL is the address an uploaded object is served from.
func (c *Client) PublicURL(object string) string {
	segments := strings.Split(object, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return c.publicBase + "/" + c.bucket + "/" + strings.Join(segments, "/")
}

// Upload stores data as object and returns its public URL.
func (c *Client) Upload(ctx context.Context, object, contentType string, data []byte) (string, error) {
	if c == nil || c.tokenSource == nil {
		return "", errNotInitialized
	}
	if object == "" {
		return "", errors.New("object name is required")
	}

	endpoint := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", c.apiBase, url.PathEscape(c.bucket),
		url.Values{"uploadType": {"media"}, "name": {object}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusError("gcs upload failed", resp)
	}
	return c.PublicURL(object), nil
}

// Ping lists at most one object, which needs storage.objects.list on the bucket.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs bucket check failed", resp)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	token, err := c.tokenSource.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("gcs token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.httpClient.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	if body := strings.TrimSpace(string(b)); body != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, body)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
