package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var webhookClient = &http.Client{Timeout: 10 * time.Second}

// SendWebhook posts a message to a Feishu custom bot webhook. The
// "plain_text" convenience type wraps the content into the text message
// shape the bot endpoint expects; any other msgType is passed through with
// the content unmodified.
func SendWebhook(ctx context.Context, webhookURL, msgType string, content any) error {
	if webhookURL == "" {
		return &ValidationError{Param: "webhook_url", Msg: "must not be empty"}
	}

	body := map[string]any{"msg_type": msgType, "content": content}
	if msgType == "plain_text" || msgType == "" {
		body["msg_type"] = "text"
		body["content"] = map[string]any{"text": fmt.Sprintf("%v", content)}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := webhookClient.Do(req)
	if err != nil {
		return &APIError{Code: -1, Msg: fmt.Sprintf("request failed: %v", err), URL: webhookURL, Body: body}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{Code: resp.StatusCode, Msg: string(raw), URL: webhookURL, Body: body}
	}
	return nil
}
