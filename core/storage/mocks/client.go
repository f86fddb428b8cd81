package mocks

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) PutObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (string, error) {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.String(0), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectName)
	if obj, ok := args.Get(0).(io.ReadCloser); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
	args := m.Called(ctx, prefix)
	if ch, ok := args.Get(0).(<-chan minio.ObjectInfo); ok {
		return ch
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func (m *Client) RemoveObject(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *Client) PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *Client) PublicURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}
