// Package rest issues the GET requests the resolver needs and decodes the
// JSON responses.
package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/agentic-research/restcli/internal/value"
)

const userAgent = "restcli/0.1.0"

// StatusError is returned for non-2xx responses. Body holds the start of
// the response body.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s returned %d", e.URL, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client fetches paths relative to a base URL.
type Client struct {
	base    string
	headers http.Header
	http    *http.Client
}

// NewClient returns a client for baseURL. headers are sent with every
// request in addition to the JSON Accept header.
func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	h := make(http.Header, len(headers)+3)
	for k, v := range headers {
		h.Set(k, v)
	}
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "zstd, gzip")
	if h.Get("User-Agent") == "" {
		h.Set("User-Agent", userAgent)
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		headers: h,
		http:    &http.Client{Timeout: timeout},
	}
}

// URL joins the base URL and path with exactly one separator.
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

// Fetch GETs path and decodes the JSON body.
func (c *Client) Fetch(ctx context.Context, path string) (value.Value, error) {
	url := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return value.Value{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.headers.Clone()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return value.Value{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	slog.Debug("response", "url", url, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return value.Value{}, &StatusError{URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := readBody(resp)
	if err != nil {
		return value.Value{}, fmt.Errorf("reading %s: %w", url, err)
	}
	v, err := value.Decode(data)
	if err != nil {
		return value.Value{}, fmt.Errorf("parsing %s: %w", url, err)
	}
	return v, nil
}

// readBody decompresses the body according to Content-Encoding. Setting
// Accept-Encoding ourselves disables the transport's transparent gzip.
func readBody(resp *http.Response) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		decoder, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer decoder.Close()
		return io.ReadAll(decoder)
	case "gzip":
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	default:
		return io.ReadAll(resp.Body)
	}
}
