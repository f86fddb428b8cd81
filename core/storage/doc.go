// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for common
// operations like uploading files, listing objects and generating presigned
// download URLs. This abstraction supports Aliyun OSS, AWS S3 and self-hosted
// MinIO instances alike, since all speak the S3 wire protocol.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks). Object names are relative paths; the configured
// root_path prefix is applied transparently.
//
// # Operations
//
//   - PutObject: Uploads content and returns the public URL.
//   - GetObject: Retrieves content as a stream.
//   - ListObjects: Lists objects under a prefix.
//   - RemoveObject: Deletes an object.
//   - PresignedGetURL: Generates a time-limited download URL.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	url, err := client.PutObject(ctx, "images/logo.png", r, size, "image/png")
package storage
