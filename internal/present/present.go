// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package present renders a successful conversion and starts downloads of
// the converted artifact.
package present

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/file-converter/internal/view"
	"github.com/pdiddy/file-converter/pkg/types"
)

// Notification shown when a download begins.
const (
	IconDownload    = "💾"
	MessageDownload = "Download started!"
)

// Notifier pushes transient notifications.
type Notifier interface {
	Push(icon, message string, kind types.NotificationKind) types.Notification
}

// Saver retrieves url and stores it locally, returning where it was saved.
type Saver interface {
	Save(ctx context.Context, url, suggested string) (string, error)
}

// Download is a started download: the artifact URL and the name it should
// be saved under.
type Download struct {
	URL  string
	Name string
}

// Presenter owns the result section and the stored download path. It is
// not safe for concurrent use.
type Presenter struct {
	sink     view.Sink
	notifier Notifier
	saver    Saver
	baseURL  string

	downloadPath string
	fileName     string
}

// New returns a Presenter that resolves download paths against baseURL.
func New(sink view.Sink, notifier Notifier, saver Saver, baseURL string) *Presenter {
	return &Presenter{
		sink:     sink,
		notifier: notifier,
		saver:    saver,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// DisplayName is the converted file's name: the original name up to its
// first dot, then the target format as extension. "report.v2.csv" with pdf
// becomes "report.pdf".
func DisplayName(fileName string, format types.FormatChoice) string {
	base, _, _ := strings.Cut(fileName, ".")
	return base + "." + string(format)
}

// Show stores the download path of a successful result, hides the progress
// section and shows the result with the text preview when there is one.
func (p *Presenter) Show(result types.ConversionResult, req types.ConversionRequest) {
	p.downloadPath = result.DownloadPath
	p.fileName = DisplayName(req.File.Name, req.Format)

	p.sink.Apply(view.ProgressVisible{Visible: false})
	p.sink.Apply(view.ShowResult{
		FileName:   p.fileName,
		Preview:    result.TextContent,
		HasPreview: result.HasPreview(),
	})
}

// Hide hides the result section and forgets the download path.
func (p *Presenter) Hide() {
	p.downloadPath = ""
	p.fileName = ""
	p.sink.Apply(view.HideResult{})
}

// DownloadPath returns the stored path, or "" when there is no result.
func (p *Presenter) DownloadPath() string {
	return p.downloadPath
}

// StartDownload builds the artifact URL and announces the download. ok is
// false when there is no stored download path. The path is not validated.
func (p *Presenter) StartDownload() (d Download, ok bool) {
	if p.downloadPath == "" {
		return Download{}, false
	}
	d = Download{
		URL:  p.baseURL + "/download/" + url.PathEscape(p.downloadPath),
		Name: p.fileName,
	}
	p.notifier.Push(IconDownload, MessageDownload, types.NotifyDownload)
	return d, true
}

// Download starts a download and hands it to the Saver. It returns "" and
// no error when there is nothing to download.
func (p *Presenter) Download(ctx context.Context) (string, error) {
	d, ok := p.StartDownload()
	if !ok {
		return "", nil
	}
	return p.Fetch(ctx, d)
}

// Fetch saves a started download. It touches no presenter state, so the
// controller calls it without holding its lock.
func (p *Presenter) Fetch(ctx context.Context, d Download) (string, error) {
	if p.saver == nil {
		return "", fmt.Errorf("no saver configured for %s", d.URL)
	}
	path, err := p.saver.Save(ctx, d.URL, d.Name)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", d.URL, err)
	}
	return path, nil
}
