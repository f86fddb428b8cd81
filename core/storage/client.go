package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client defines the interface for object storage operations.
// Object names are paths relative to the configured root path.
type Client interface {
	// PutObject uploads an object and returns its public URL.
	PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (string, error)
	// GetObject downloads an object.
	GetObject(ctx context.Context, objectName string) (io.ReadCloser, error)
	// ListObjects lists objects under a prefix.
	ListObjects(ctx context.Context, prefix string) <-chan minio.ObjectInfo
	// RemoveObject deletes an object.
	RemoveObject(ctx context.Context, objectName string) error
	// PresignedGetURL generates a time-limited download URL for an object.
	PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	// PublicURL returns the permanent URL for an object without touching the network.
	PublicURL(objectName string) string
}

// NewClient creates a new storage client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	// The SDK expects an endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration, // TLS Handshake timeout
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration, // Wait for first response byte timeout
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	baseURL := cfg.Host
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}

	return &ossClient{
		mc:       mc,
		bucket:   cfg.Bucket,
		rootPath: strings.Trim(cfg.RootPath, "/"),
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

type ossClient struct {
	mc       *minio.Client
	bucket   string
	rootPath string
	baseURL  string
}

// objectPath prefixes the configured root path onto a relative object name.
func (c *ossClient) objectPath(objectName string) string {
	objectName = strings.TrimPrefix(objectName, "/")
	if c.rootPath == "" {
		return objectName
	}
	return path.Join(c.rootPath, objectName)
}

func (c *ossClient) PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.mc.PutObject(ctx, c.bucket, c.objectPath(objectName), reader, objectSize, opts); err != nil {
		return "", fmt.Errorf("put object %q: %w", objectName, err)
	}
	return c.PublicURL(objectName), nil
}

func (c *ossClient) GetObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, c.objectPath(objectName), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", objectName, err)
	}
	return obj, nil
}

func (c *ossClient) ListObjects(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
	return c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    c.objectPath(prefix),
		Recursive: true,
	})
}

func (c *ossClient) RemoveObject(ctx context.Context, objectName string) error {
	return c.mc.RemoveObject(ctx, c.bucket, c.objectPath(objectName), minio.RemoveObjectOptions{})
}

func (c *ossClient) PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, c.objectPath(objectName), expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", objectName, err)
	}
	return u.String(), nil
}

func (c *ossClient) PublicURL(objectName string) string {
	return c.baseURL + "/" + c.objectPath(objectName)
}
