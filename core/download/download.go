package download

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

// Some hosts reject requests without a browser user agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Result holds the outcome of a successful fetch.
type Result struct {
	// Filename is the name derived from the Content-Disposition header or the URL path.
	Filename string
	// Data is the downloaded content.
	Data []byte
	// ContentType is the declared MIME type of the response, if any.
	ContentType string
}

// Client fetches files over HTTP, following redirects.
type Client struct {
	hc *http.Client
}

// New creates a downloader with the given total request timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{hc: &http.Client{Timeout: timeout}}
}

// Fetch downloads the given URL and returns the filename, content and
// declared content type. Redirects are followed.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %q: %w", rawURL, err)
	}

	return &Result{
		Filename:    filenameFromResponse(resp),
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// filenameFromResponse extracts a filename from the Content-Disposition
// header if present, falling back to the path tail of the final URL after
// redirects.
func filenameFromResponse(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		if name := strings.Trim(path.Base(resp.Request.URL.Path), "/"); name != "" && name != "." {
			return name
		}
	}
	return ""
}
