// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stubserver

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
)

// maxPreviewLines bounds the text copied into a placeholder PDF.
const maxPreviewLines = 60

type artifact struct {
	data []byte
	text string
}

type generator func(name string, data []byte) (artifact, error)

var generators = map[string]generator{
	"txt":  textArtifact,
	"html": htmlArtifact,
	"pdf":  pdfArtifact,
}

var errBinary = errors.New("cannot extract text from a binary file")

// asText returns data as a string when it looks like UTF-8 text.
func asText(data []byte) (string, bool) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", false
	}
	return string(data), true
}

func textArtifact(_ string, data []byte) (artifact, error) {
	text, ok := asText(data)
	if !ok {
		return artifact{}, errBinary
	}
	return artifact{data: []byte(text), text: text}, nil
}

func htmlArtifact(name string, data []byte) (artifact, error) {
	text, ok := asText(data)
	if !ok {
		return artifact{}, errBinary
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n", html.EscapeString(name))
	fmt.Fprintf(&b, "<body>\n<pre>%s</pre>\n</body>\n</html>\n", html.EscapeString(text))
	return artifact{data: []byte(b.String())}, nil
}

// pdfArtifact renders a single page with the source name and, for text
// sources, the first lines of the content.
func pdfArtifact(name string, data []byte) (artifact, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(name, true)
	pdf.SetCreator("file-converter stub", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(name), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Courier", "", 10)
	if text, ok := asText(data); ok {
		lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
		if len(lines) > maxPreviewLines {
			lines = append(lines[:maxPreviewLines], "...")
		}
		pdf.MultiCell(0, 5, tr(strings.Join(lines, "\n")), "", "L", false)
	} else {
		pdf.MultiCell(0, 5, fmt.Sprintf("Placeholder for binary source (%d bytes).", len(data)), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return artifact{}, fmt.Errorf("rendering pdf: %w", err)
	}
	return artifact{data: buf.Bytes()}, nil
}
