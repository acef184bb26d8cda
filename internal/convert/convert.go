// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert talks to the external conversion service.
//
// Contract: POST {base}/convert with a multipart body carrying the raw file
// ("file") and the target format identifier ("format"). The service
// answers with JSON {success, download_path?, text_content?, error?}.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdiddy/file-converter/pkg/types"
)

const (
	convertPath  = "/convert"
	fieldFile    = "file"
	fieldFormat  = "format"
	maxErrorBody = 512
)

// Backend performs a conversion request. A returned error means the
// request did not produce a usable response (network failure, unreadable
// body, malformed JSON); a declared failure comes back as a result with
// Success false.
type Backend interface {
	Convert(ctx context.Context, req types.ConversionRequest) (types.ConversionResult, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req types.ConversionRequest) (types.ConversionResult, error)

func (f BackendFunc) Convert(ctx context.Context, req types.ConversionRequest) (types.ConversionResult, error) {
	return f(ctx, req)
}

// HTTPBackend is the Backend for the conversion service's HTTP API.
type HTTPBackend struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewHTTPBackend returns a backend for cfg.BaseURL. A nil client gets one
// with cfg.Timeout.
func NewHTTPBackend(client *http.Client, cfg types.ServiceConfig) *HTTPBackend {
	cfg = cfg.WithDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPBackend{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}
}

// Convert uploads the file and decodes the service's answer. The body is
// decoded whatever the HTTP status; the success flag in the body decides
// the outcome. Requests are never retried.
func (b *HTTPBackend) Convert(ctx context.Context, req types.ConversionRequest) (types.ConversionResult, error) {
	if !req.Valid() {
		return types.ConversionResult{}, fmt.Errorf("conversion request needs a file and a format")
	}

	body, contentType, err := encodeForm(req)
	if err != nil {
		return types.ConversionResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+convertPath, body)
	if err != nil {
		return types.ConversionResult{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if b.userAgent != "" {
		httpReq.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return types.ConversionResult{}, fmt.Errorf("conversion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ConversionResult{}, fmt.Errorf("reading conversion response: %w", err)
	}

	var result types.ConversionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return types.ConversionResult{}, fmt.Errorf("parsing conversion response (HTTP %d, %q): %w",
			resp.StatusCode, snippet(data), err)
	}
	return result, nil
}

// encodeForm builds the multipart body. The whole file is buffered so the
// request has a known length.
func encodeForm(req types.ConversionRequest) (*bytes.Buffer, string, error) {
	src, err := req.File.Handle.Open()
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", req.File.Name, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(fieldFile, req.File.Name)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", req.File.Name, err)
	}
	if err := mw.WriteField(fieldFormat, string(req.Format)); err != nil {
		return nil, "", fmt.Errorf("writing format field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
