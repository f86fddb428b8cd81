package feishu

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Attachment is the structured reference descriptor the service requires for
// file-valued fields. It is produced by the ingestion pipeline; the only
// other accepted source is a caller passing an already-shaped reference
// through unchanged.
type Attachment struct {
	FileToken string `json:"file_token"`
	Name      string `json:"name,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Type      string `json:"type,omitempty"`
}

var urlPattern = regexp.MustCompile(`^https?://`)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".ico":  true,
	".svg":  true,
}

// Deterministic extension choices for the content types seen in practice;
// mime.ExtensionsByType orders its results unpredictably.
var contentTypeExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// ingestAttachments coerces an attachment field value (possibly a singleton)
// into a list of reference descriptors. Elements that fail ingestion are
// skipped.
func (t *Table) ingestAttachments(ctx context.Context, value any) []Attachment {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []Attachment:
		for _, a := range v {
			items = append(items, a)
		}
	case [][]byte:
		for _, b := range v {
			items = append(items, b)
		}
	default:
		items = []any{value}
	}

	refs := make([]Attachment, 0, len(items))
	for _, item := range items {
		if ref := t.ingestAttachment(ctx, item); ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs
}

// ingestAttachment normalizes one heterogeneous input into a remote-storage
// reference: existing references pass through, URLs are fetched, filesystem
// paths are read, raw bytes get a synthesized name. Any failure yields nil
// so the field can be dropped upstream.
func (t *Table) ingestAttachment(ctx context.Context, value any) *Attachment {
	var (
		name  string
		data  []byte
		ctype string
	)

	switch v := value.(type) {
	case Attachment:
		return &v
	case *Attachment:
		return v
	case map[string]any:
		token, ok := v["file_token"].(string)
		if !ok || token == "" {
			t.logger.Error("attachment map value carries no file_token", zap.Any("value", v))
			return nil
		}
		ref := &Attachment{FileToken: token}
		if s, ok := v["name"].(string); ok {
			ref.Name = s
		}
		if n, ok := v["size"].(float64); ok {
			ref.Size = int64(n)
		}
		if s, ok := v["type"].(string); ok {
			ref.Type = s
		}
		return ref

	case string:
		switch {
		case urlPattern.MatchString(v):
			res, err := t.client.dl.Fetch(ctx, v)
			if err != nil {
				t.logger.Error("attachment download failed", zap.String("url", v), zap.Error(err))
				return nil
			}
			name, data = res.Filename, res.Data
			if mediaType, _, err := mime.ParseMediaType(res.ContentType); err == nil {
				ctype = mediaType
			}
			if name == "" {
				name = "download_" + uuid.NewString()[:8]
			}
		case fileExists(v):
			content, err := os.ReadFile(v)
			if err != nil {
				t.logger.Error("attachment file not readable", zap.String("path", v), zap.Error(err))
				return nil
			}
			name, data = filepath.Base(v), content
		default:
			t.logger.Error("attachment string is neither a URL nor an existing path", zap.String("value", v))
			return nil
		}

	case []byte:
		name, data = "file_"+uuid.NewString()[:8]+".bin", v

	default:
		t.logger.Error("unsupported attachment value type", zap.Any("value", value))
		return nil
	}

	if len(data) == 0 {
		t.logger.Error("attachment content is empty", zap.String("name", name))
		return nil
	}

	if ctype == "" {
		if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
			ctype = byExt
		} else {
			ctype = http.DetectContentType(data)
		}
	}
	if filepath.Ext(name) == "" {
		if ext, ok := contentTypeExtensions[ctype]; ok {
			name += ext
		}
	}

	parentType := ParentTypeBitableFile
	if isImage(name, ctype) {
		parentType = ParentTypeBitableImage
	}

	res, err := t.client.UploadMedia(ctx, UploadMediaRequest{
		FileName:   name,
		Content:    data,
		ParentType: parentType,
		ParentNode: t.appToken,
	})
	if err != nil && parentType == ParentTypeBitableImage {
		// Destination scoping occasionally rejects image uploads; one retry
		// against the generic file destination, then give up.
		t.logger.Warn("image upload failed, retrying as generic file",
			zap.String("name", name), zap.Error(err))
		res, err = t.client.UploadMedia(ctx, UploadMediaRequest{
			FileName:   name,
			Content:    data,
			ParentType: ParentTypeBitableFile,
			ParentNode: t.appToken,
		})
	}
	if err != nil {
		t.logger.Error("attachment upload failed", zap.String("name", name), zap.Error(err))
		return nil
	}

	return &Attachment{
		FileToken: res.FileToken,
		Name:      name,
		Size:      int64(len(data)),
		Type:      ctype,
	}
}

func isImage(name, contentType string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
