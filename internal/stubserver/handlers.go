// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stubserver

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/file-converter/pkg/types"
)

// handleConvert accepts a multipart upload with fields "file" and
// "format", writes a placeholder artifact and answers with its download
// path.
func (s *Server) handleConvert(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest("No file uploaded")
	}
	if fh.Filename == "" {
		return badRequest("No file selected")
	}
	format := strings.ToLower(strings.TrimSpace(c.FormValue("format")))
	if format == "" {
		return badRequest("No output format selected")
	}

	gen, ok := generators[format]
	if !ok {
		return unprocessable("conversion to " + format + " is not supported by the stub service")
	}

	src, err := fh.Open()
	if err != nil {
		return internal("reading upload", err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return internal("reading upload", err)
	}

	name := secureName(fh.Filename)
	art, err := gen(name, data)
	if err != nil {
		return unprocessable(err.Error())
	}

	stored := s.newID() + "." + format
	if err := os.WriteFile(filepath.Join(s.cfg.StorageDir, stored), art.data, 0o644); err != nil {
		return internal("writing artifact", err)
	}
	base, _, _ := strings.Cut(name, ".")
	s.remember(stored, base+"."+format)

	s.logger.Debug("artifact written", "source", name, "artifact", stored, "bytes", len(art.data))
	return c.JSON(http.StatusOK, types.ConversionResult{
		Success:      true,
		DownloadPath: stored,
		TextContent:  art.text,
	})
}

// handleDownload streams a stored artifact as an attachment.
func (s *Server) handleDownload(c echo.Context) error {
	raw, err := url.PathUnescape(c.Param("path"))
	if err != nil {
		return badRequest("invalid download path")
	}
	if raw == "" || raw != path.Base(raw) || strings.ContainsAny(raw, `/\`) || raw == ".." {
		return notFound("file not found: " + raw)
	}

	full := filepath.Join(s.cfg.StorageDir, raw)
	if _, err := os.Stat(full); err != nil {
		return notFound("file not found: " + raw)
	}
	return c.Attachment(full, s.downloadName(raw))
}

// secureName strips directories and characters that do not belong in a
// file name. An empty result becomes "upload".
func secureName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), "._")
	if out == "" {
		return "upload"
	}
	return out
}
