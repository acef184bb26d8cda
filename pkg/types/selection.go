// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the file-converter client.
// Covers the selection model (FileSelection, FormatChoice, ConversionRequest),
// the conversion service response (ConversionResult), notifications, and
// configuration.
package types

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source is an opaque handle to the bytes of a selected file. It is opened
// once per conversion request.
type Source interface {
	Open() (io.ReadCloser, error)
}

// FileSelection is the file the user picked or dropped. At most one exists
// at a time; a new pick replaces it wholesale.
type FileSelection struct {
	// Name is the original file name including its extension(s).
	Name string `json:"name" yaml:"name"`

	// SizeBytes is the file size in bytes.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`

	// Handle opens the raw file contents.
	Handle Source `json:"-" yaml:"-"`
}

// IsZero reports whether the selection is empty.
func (f FileSelection) IsZero() bool {
	return f.Name == "" && f.Handle == nil
}

type pathSource string

func (p pathSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

type bytesSource []byte

func (b bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// LocalFile builds a FileSelection for a file on disk. The file is not read
// until a conversion request opens it.
func LocalFile(path string) (FileSelection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileSelection{}, fmt.Errorf("reading file info for %s: %w", path, err)
	}
	if info.IsDir() {
		return FileSelection{}, fmt.Errorf("%s is a directory", path)
	}
	return FileSelection{
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
		Handle:    pathSource(path),
	}, nil
}

// BytesFile builds an in-memory FileSelection.
func BytesFile(name string, data []byte) FileSelection {
	return FileSelection{
		Name:      name,
		SizeBytes: int64(len(data)),
		Handle:    bytesSource(data),
	}
}

// FormatChoice identifies a target output format (e.g. "pdf"). Valid values
// come from the format catalog.
type FormatChoice string

// ConversionRequest pairs the selected file with the chosen format. It is
// derived from the selection state and never stored.
type ConversionRequest struct {
	File   FileSelection
	Format FormatChoice
}

// Valid reports whether both the file and the format are present.
func (r ConversionRequest) Valid() bool {
	return !r.File.IsZero() && r.Format != ""
}

// ConversionResult is the conversion service's answer to POST /convert.
// DownloadPath is set iff Success; Error is set iff not Success. An empty
// TextContent means the service returned no inline preview.
type ConversionResult struct {
	Success      bool   `json:"success" yaml:"success"`
	DownloadPath string `json:"download_path,omitempty" yaml:"download_path,omitempty"`
	TextContent  string `json:"text_content,omitempty" yaml:"text_content,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasPreview reports whether the result carries inline text content.
func (r ConversionResult) HasPreview() bool {
	return r.TextContent != ""
}
