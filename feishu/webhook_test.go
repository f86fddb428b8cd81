package feishu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWebhook_PlainTextWrapped(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	}))
	defer srv.Close()

	require.NoError(t, SendWebhook(context.Background(), srv.URL, "plain_text", "deploy finished"))
	assert.Equal(t, "text", body["msg_type"])
	assert.Equal(t, map[string]any{"text": "deploy finished"}, body["content"])

	// An empty message type takes the same convenience path.
	require.NoError(t, SendWebhook(context.Background(), srv.URL, "", 42))
	assert.Equal(t, map[string]any{"text": "42"}, body["content"])
}

func TestSendWebhook_RichContentPassesThrough(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}))
	defer srv.Close()

	content := map[string]any{"post": map[string]any{"zh_cn": map[string]any{"title": "notice"}}}
	require.NoError(t, SendWebhook(context.Background(), srv.URL, "post", content))
	assert.Equal(t, "post", body["msg_type"])
	assert.Equal(t, content, body["content"])
}

func TestSendWebhook_Failures(t *testing.T) {
	err := SendWebhook(context.Background(), "", "plain_text", "x")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad signature", http.StatusBadRequest)
	}))
	defer srv.Close()

	err = SendWebhook(context.Background(), srv.URL, "plain_text", "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
}
