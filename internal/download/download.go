// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download retrieves converted artifacts from the conversion
// service and saves them to a local directory. It is the command-line
// counterpart of the browser's save-file prompt.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/file-converter/internal/httputil"
)

// fallbackName is used when neither the response nor the caller offers a
// usable file name.
const fallbackName = "download"

// Fetcher saves remote files into Dir.
type Fetcher struct {
	Client     *http.Client
	Dir        string
	UserAgent  string
	MaxRetries int
	Logger     *slog.Logger
}

// Save fetches url and writes the body to Dir. The file name comes from the
// response's Content-Disposition header, then suggested, then the last URL
// path segment. It returns the path of the written file.
//
// The body is written to a temporary file first and renamed on success, so
// a failed transfer never leaves a partial artifact behind.
func (f *Fetcher) Save(ctx context.Context, url, suggested string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client(), req, f.MaxRetries, f.Logger)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	name := fileName(resp.Header.Get("Content-Disposition"), suggested, req.URL.Path)
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	destPath := filepath.Join(dir, name)

	if err := writeAtomic(resp.Body, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func writeAtomic(r io.Reader, destPath string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// fileName picks a safe base name for the saved file.
func fileName(disposition, suggested, urlPath string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if n := safeBase(params["filename"]); n != "" {
				return n
			}
		}
	}
	if n := safeBase(suggested); n != "" {
		return n
	}
	if n := safeBase(path.Base(urlPath)); n != "" {
		return n
	}
	return fallbackName
}

func safeBase(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}
