package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/zhidateam/zdgotools/core/download"
)

// UploadFromURL downloads a file and stores it under objectName, returning
// the public URL of the stored object. When objectName is empty, the filename
// reported by the download is used.
func UploadFromURL(ctx context.Context, c Client, dl *download.Client, rawURL, objectName string) (string, error) {
	res, err := dl.Fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("download %q: %w", rawURL, err)
	}
	if objectName == "" {
		objectName = res.Filename
	}
	if objectName == "" {
		return "", fmt.Errorf("no object name derivable from %q", rawURL)
	}
	// Keep directory-style names intact, only the empty case is invalid.
	objectName = path.Clean(objectName)

	return c.PutObject(ctx, objectName, bytes.NewReader(res.Data), int64(len(res.Data)), res.ContentType)
}
