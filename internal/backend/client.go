// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Hughclaw18/redpill-interface/internal/config"
	"github.com/Hughclaw18/redpill-interface/internal/model"
	"github.com/Hughclaw18/redpill-interface/internal/util"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is where the backend listens out of the box.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for a single request.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	// ingestField is the multipart field name, repeated once per file.
	ingestField = "files"

	userAgent = "redpill/1.0"
)

// chatRequest is the body of POST /chat.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the body the backend answers /chat with. Response is a
// pointer so a missing field can be told apart from an empty reply.
type chatResponse struct {
	Response *string `json:"response"`
}

// Client talks to the chat/ingest backend. Requests are never retried: each
// call issues exactly one HTTP request.
type Client struct {
	baseURL    string
	chatPath   string
	ingestPath string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL with default paths.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		chatPath:   "/chat",
		ingestPath: "/ingest",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// NewFromConfig creates a client from the [backend] config section.
func NewFromConfig(cfg config.BackendConfig) *Client {
	c := New(cfg.URL).WithPaths(cfg.ChatPath, cfg.IngestPath)
	if cfg.TimeoutSecs > 0 {
		c.WithTimeout(cfg.Timeout())
	}
	return c
}

// WithPaths overrides the chat and ingest endpoint paths. Empty values keep
// the current path.
func (c *Client) WithPaths(chatPath, ingestPath string) *Client {
	if chatPath != "" {
		c.chatPath = chatPath
	}
	if ingestPath != "" {
		c.ingestPath = ingestPath
	}
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// INGEST
// =============================================================================

// Ingest uploads files to the ingest endpoint as one multipart/form-data
// request with a "files" part per file. Any 2xx status is success.
func (c *Client) Ingest(ctx context.Context, files []model.FileRef) error {
	const op = "ingest"

	if len(files) == 0 {
		return &Error{Op: op, Kind: KindTransport, Err: ErrNoFiles}
	}

	body, contentType, err := encodeFiles(files)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.ingestPath, body)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(op, resp.StatusCode, respBody)
	}
	return nil
}

// encodeFiles builds the multipart body in memory. Files are already capped
// by the upload size limit so buffering is fine.
func encodeFiles(files []model.FileRef) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, ingestField, escapeQuotes(f.Name)))
		ct := f.MIMEType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// =============================================================================
// CHAT
// =============================================================================

// Chat posts {"message": text} and returns the "response" field verbatim.
func (c *Client) Chat(ctx context.Context, text string) (string, error) {
	const op = "chat"

	payload, err := json.Marshal(chatRequest{Message: text})
	if err != nil {
		return "", &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.chatPath, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.do(req)
	if err != nil {
		return "", &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return "", &Error{Op: op, Kind: KindTransport, Err: err}
	}
	if !isSuccess(resp.StatusCode) {
		return "", statusError(op, resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if chatResp.Response == nil {
		return "", &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: ErrMissingResponse}
	}
	return *chatResp.Response, nil
}

// =============================================================================
// TRANSPORT HELPERS
// =============================================================================

// do sends one request and logs method, path, status and duration. Bodies
// are never logged.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("API Error: %s %s: %v (%v)", req.Method, req.URL.Path, err, duration)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	log.Printf("API Response: %d %s (%v)", resp.StatusCode, req.URL.Path, duration)
	return resp, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func statusError(op string, status int, body []byte) *Error {
	detail := strings.TrimSpace(string(body))
	return &Error{
		Op:     op,
		Kind:   KindStatus,
		Status: status,
		Err:    fmt.Errorf("HTTP %d: %s", status, util.TruncateRunes(detail, 200)),
	}
}
