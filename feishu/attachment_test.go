package feishu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadRecord captures one multipart upload as seen by the media endpoint.
type uploadRecord struct {
	FileName   string
	ParentType string
	ParentNode string
	Size       string
	Content    []byte
}

// handleUpload registers the media endpoint. rejectImages makes the first
// destination kind fail so the retry path can be observed.
func handleUpload(t *testing.T, mux *http.ServeMux, uploads *[]uploadRecord, rejectImages bool) {
	t.Helper()
	mux.HandleFunc(uploadMediaURI, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		rec := uploadRecord{
			FileName:   r.FormValue("file_name"),
			ParentType: r.FormValue("parent_type"),
			ParentNode: r.FormValue("parent_node"),
			Size:       r.FormValue("size"),
		}
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		rec.Content = buf[:n]
		*uploads = append(*uploads, rec)

		if rejectImages && rec.ParentType == ParentTypeBitableImage {
			writeEnvelope(w, 1062505, "parent node mismatch", nil)
			return
		}
		writeEnvelope(w, 0, "ok", map[string]any{"file_token": "tokMedia"})
	})
}

func TestIngestAttachment_RawBytes(t *testing.T) {
	var uploads []uploadRecord
	mux := http.NewServeMux()
	handleToken(mux)
	handleUpload(t, mux, &uploads, false)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)
	refs := table.ingestAttachments(context.Background(), []byte{0x01, 0x02, 0x03})

	require.Len(t, refs, 1)
	assert.Equal(t, "tokMedia", refs[0].FileToken)
	assert.Equal(t, int64(3), refs[0].Size)
	assert.True(t, strings.HasPrefix(refs[0].Name, "file_"))
	assert.True(t, strings.HasSuffix(refs[0].Name, ".bin"))

	require.Len(t, uploads, 1)
	assert.Equal(t, ParentTypeBitableFile, uploads[0].ParentType)
	assert.Equal(t, testAppToken, uploads[0].ParentNode)
	assert.Equal(t, "3", uploads[0].Size)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, uploads[0].Content)
}

func TestIngestAttachment_ReferencePassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("existing references must not reach the network")
	}))
	defer srv.Close()

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)

	refs := table.ingestAttachments(context.Background(), Attachment{FileToken: "tokA", Name: "a.png"})
	require.Len(t, refs, 1)
	assert.Equal(t, "tokA", refs[0].FileToken)

	refs = table.ingestAttachments(context.Background(), []any{
		map[string]any{"file_token": "tokB", "name": "b.pdf", "size": float64(12)},
	})
	require.Len(t, refs, 1)
	assert.Equal(t, Attachment{FileToken: "tokB", Name: "b.pdf", Size: 12}, refs[0])
}

func TestIngestAttachment_URLGainsExtensionFromContentType(t *testing.T) {
	var uploads []uploadRecord
	mux := http.NewServeMux()
	handleToken(mux)
	handleUpload(t, mux, &uploads, false)
	mux.HandleFunc("/assets/cover", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("pngbytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)
	refs := table.ingestAttachments(context.Background(), srv.URL+"/assets/cover")

	require.Len(t, refs, 1)
	assert.Equal(t, "cover.png", refs[0].Name)
	assert.Equal(t, "image/png", refs[0].Type)

	require.Len(t, uploads, 1)
	assert.Equal(t, ParentTypeBitableImage, uploads[0].ParentType)
}

func TestIngestAttachment_LocalFile(t *testing.T) {
	var uploads []uploadRecord
	mux := http.NewServeMux()
	handleToken(mux)
	handleUpload(t, mux, &uploads, false)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("quarterly numbers"), 0o644))

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)
	refs := table.ingestAttachments(context.Background(), path)

	require.Len(t, refs, 1)
	assert.Equal(t, "report.txt", refs[0].Name)
	assert.Equal(t, int64(len("quarterly numbers")), refs[0].Size)

	require.Len(t, uploads, 1)
	assert.Equal(t, ParentTypeBitableFile, uploads[0].ParentType)
}

func TestIngestAttachment_ImageUploadRetriesAsFile(t *testing.T) {
	var uploads []uploadRecord
	mux := http.NewServeMux()
	handleToken(mux)
	handleUpload(t, mux, &uploads, true)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)
	refs := table.ingestAttachments(context.Background(), path)

	require.Len(t, refs, 1, "the generic file destination accepts the retry")
	require.Len(t, uploads, 2)
	assert.Equal(t, ParentTypeBitableImage, uploads[0].ParentType)
	assert.Equal(t, ParentTypeBitableFile, uploads[1].ParentType)
}

func TestIngestAttachment_UnsupportedValues(t *testing.T) {
	mux := http.NewServeMux()
	handleToken(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)

	assert.Empty(t, table.ingestAttachments(context.Background(), 42))
	assert.Empty(t, table.ingestAttachments(context.Background(), "not-a-url-or-path"))
	assert.Empty(t, table.ingestAttachments(context.Background(), map[string]any{"name": "no token"}))
	assert.Empty(t, table.ingestAttachments(context.Background(), []byte{}))
}

func TestReconcile_AttachmentFieldIngested(t *testing.T) {
	var uploads []uploadRecord
	mux := http.NewServeMux()
	handleToken(mux)
	handleUpload(t, mux, &uploads, false)
	mux.HandleFunc(fieldsPath(), func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "ok", map[string]any{
			"items":    []FieldDescriptor{{FieldID: "f1", Name: "附件", Type: FieldTypeAttachment}},
			"has_more": false,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)
	sanitized, dropped, err := table.Reconcile(context.Background(), map[string]any{
		"附件": []byte("payload"),
	})

	require.NoError(t, err)
	assert.Empty(t, dropped)
	refs, ok := sanitized["附件"].([]Attachment)
	require.True(t, ok)
	require.Len(t, refs, 1)
	assert.Equal(t, "tokMedia", refs[0].FileToken)
}

func TestReconcile_AttachmentIngestionFailureDrops(t *testing.T) {
	mux := http.NewServeMux()
	handleToken(mux)
	mux.HandleFunc(fieldsPath(), func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 0, "ok", map[string]any{
			"items":    []FieldDescriptor{{FieldID: "f1", Name: "附件", Type: FieldTypeAttachment}},
			"has_more": false,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	table := NewTable(newTestClient(t, srv.URL), testAppToken, testTableID)
	sanitized, dropped, err := table.Reconcile(context.Background(), map[string]any{
		"附件": "neither url nor path",
	})

	require.NoError(t, err)
	assert.Empty(t, sanitized)
	require.Len(t, dropped, 1)
	assert.Equal(t, "no attachment ingested", dropped[0].Reason)
}
