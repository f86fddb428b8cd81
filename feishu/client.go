package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/zhidateam/zdgotools/core/download"

	"go.uber.org/zap"
)

// Tokens are refreshed this long before their declared expiry so that a call
// never goes out on the expiry edge.
const tokenSafetyMargin = 300 * time.Second

// The server omits the expiry in rare cases; fall back to one hour.
const defaultTokenTTL = 3600

// Config holds credentials and connection settings for the Feishu open API.
type Config struct {
	// AppID is the open-platform application ID.
	AppID string `mapstructure:"app_id" default:""`
	// AppSecret is the open-platform application secret.
	AppSecret string `mapstructure:"app_secret" default:""`
	// BaseURL is the API host, overridable for testing.
	BaseURL string `mapstructure:"base_url" default:"https://open.feishu.cn"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// Client is a schema-aware Feishu open API client. One instance owns one
// tenant access token and one outbound HTTP connection pool; it is safe for
// concurrent use.
type Client struct {
	cfg    Config
	hc     *http.Client
	dl     *download.Client
	logger *zap.Logger

	// now is replaceable in tests.
	now func() time.Time

	mu            sync.Mutex
	token         string
	tokenExpireAt time.Time
}

// NewClient creates a Feishu client from the given configuration. AppID and
// AppSecret are required; the token is fetched lazily on first use.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.AppID == "" {
		return nil, &ValidationError{Param: "app_id", Msg: "must not be empty"}
	}
	if cfg.AppSecret == "" {
		return nil, &ValidationError{Param: "app_secret", Msg: "must not be empty"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHost
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:    cfg,
		hc:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
		dl:     download.New(time.Duration(timeout) * time.Second),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.hc.CloseIdleConnections()
}

// Token returns the currently held tenant access token, which may be empty
// or stale; call EnsureToken first when a valid one is needed.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// EnsureToken guarantees that the held tenant access token has strictly more
// than the safety margin of remaining lifetime, refreshing it if necessary.
// Concurrent callers may trigger overlapping refreshes; the server accepts
// any number of valid refresh calls, so the races are tolerated rather than
// serialized.
func (c *Client) EnsureToken(ctx context.Context) error {
	c.mu.Lock()
	token, expireAt := c.token, c.tokenExpireAt
	c.mu.Unlock()

	if token != "" && c.now().Before(expireAt.Add(-tokenSafetyMargin)) {
		return nil
	}
	return c.refreshToken(ctx)
}

func (c *Client) refreshToken(ctx context.Context) error {
	reqURL := c.cfg.BaseURL + tenantAccessTokenURI
	body := map[string]string{"app_id": c.cfg.AppID, "app_secret": c.cfg.AppSecret}

	payload, err := json.Marshal(body)
	if err != nil {
		return &AuthError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Error("tenant access token request failed", zap.Error(err))
		return &AuthError{Err: &APIError{Code: -1, Msg: fmt.Sprintf("request failed: %v", err), URL: reqURL}}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Err: &DecodeError{URL: reqURL, Err: err}}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("tenant access token request rejected",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return &AuthError{Err: &APIError{Code: resp.StatusCode, Msg: "unexpected HTTP status", URL: reqURL}}
	}

	var parsed struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &AuthError{Err: &DecodeError{URL: reqURL, Err: err}}
	}
	if parsed.Code != 0 {
		return &AuthError{Err: &APIError{Code: parsed.Code, Msg: parsed.Msg, URL: reqURL}}
	}
	if parsed.TenantAccessToken == "" {
		return &AuthError{Err: &APIError{Code: -1, Msg: "empty tenant_access_token in response", URL: reqURL}}
	}

	expire := parsed.Expire
	if expire <= 0 {
		expire = defaultTokenTTL
	}

	c.mu.Lock()
	c.token = parsed.TenantAccessToken
	c.tokenExpireAt = c.now().Add(time.Duration(expire) * time.Second)
	c.mu.Unlock()

	c.logger.Debug("tenant access token refreshed", zap.Int("expire_seconds", expire))
	return nil
}

// envelope is the standard response wrapper of every open API endpoint.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// request performs an authenticated JSON call against the API host.
// apiPath may carry a query string. The returned payload is the "data"
// member of the response envelope.
func (c *Client) request(ctx context.Context, method, apiPath string, body any) (json.RawMessage, error) {
	if err := c.EnsureToken(ctx); err != nil {
		return nil, err
	}

	reqURL := c.cfg.BaseURL + apiPath
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body for %s: %w", reqURL, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", reqURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token())

	c.logger.Debug("calling feishu api", zap.String("method", method), zap.String("url", reqURL))
	return c.send(req, reqURL, body)
}

// send executes a prepared request and applies the shared status, decode and
// embedded-code checks.
func (c *Client) send(req *http.Request, reqURL string, reqBody any) (json.RawMessage, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Error("feishu api request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, &APIError{Code: -1, Msg: fmt.Sprintf("request failed: %v", err), URL: reqURL, Body: reqBody}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DecodeError{URL: reqURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("feishu api returned unexpected status",
			zap.String("url", reqURL), zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return nil, &APIError{Code: resp.StatusCode, Msg: "unexpected HTTP status", URL: reqURL, Body: reqBody}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Error("feishu api response not decodable", zap.String("url", reqURL), zap.Error(err))
		return nil, &DecodeError{URL: reqURL, Err: err}
	}
	if env.Code != 0 {
		c.logger.Error("feishu api returned error code",
			zap.String("url", reqURL), zap.Int("code", env.Code), zap.String("msg", env.Msg))
		return nil, &APIError{Code: env.Code, Msg: env.Msg, URL: reqURL, Body: reqBody}
	}
	return env.Data, nil
}
