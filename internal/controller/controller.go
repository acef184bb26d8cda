// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package controller wires the converter page together. A Controller owns
// the selection, the progress simulator, the notification queue, the result
// presenter and the install prompt, and serializes every user action and
// timer callback behind one lock. The backend call is the only place the
// lock is released while an action is running.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/internal/clock"
	"github.com/pdiddy/file-converter/internal/convert"
	"github.com/pdiddy/file-converter/internal/install"
	"github.com/pdiddy/file-converter/internal/notify"
	"github.com/pdiddy/file-converter/internal/present"
	"github.com/pdiddy/file-converter/internal/progress"
	"github.com/pdiddy/file-converter/internal/selection"
	"github.com/pdiddy/file-converter/internal/view"
	"github.com/pdiddy/file-converter/pkg/types"
)

var (
	// ErrNotReady is returned by Convert when a file or format is missing.
	ErrNotReady = errors.New("select a file and a format first")

	// ErrInFlight is returned by Convert while another conversion runs.
	ErrInFlight = errors.New("a conversion is already in progress")

	// ErrConversionFailed wraps the message of a declared or transport
	// failure.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrStale is returned when the file changed while the request was in
	// flight. The response is discarded.
	ErrStale = errors.New("file changed during conversion")
)

// Notification texts.
const (
	IconUploaded     = "📁"
	MessageUploaded  = "File uploaded successfully!"
	IconConverted    = "✅"
	MessageConverted = "File converted successfully!"

	// StatusConverting is the status line while a conversion runs.
	StatusConverting = "Converting..."

	// fallbackError is used when the service declares failure without a
	// message.
	fallbackError = "conversion failed (no error message returned)"
)

// Deps are the controller's collaborators. Only Backend is required.
type Deps struct {
	Config  types.ClientConfig
	Catalog *catalog.Catalog
	Backend convert.Backend
	Saver   present.Saver
	Sink    view.Sink
	Clock   clock.Clock
	Rand    progress.Source
	Logger  *slog.Logger
}

// Controller is the single state object behind the converter page. All
// methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	backend   convert.Backend
	sink      view.Sink
	logger    *slog.Logger
	sel       selection.State
	sim       *progress.Simulator
	queue     *notify.Queue
	presenter *present.Presenter
	install   *install.Prompt

	inFlight bool
}

// New builds a Controller. Zero-valued dependencies get defaults: the
// built-in catalog, a discarding sink, the real clock and a discarding
// logger.
func New(d Deps) *Controller {
	cfg := d.Config.WithDefaults()
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Sink == nil {
		d.Sink = view.Discard
	}
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}

	c := &Controller{
		catalog: d.Catalog,
		backend: d.Backend,
		sink:    d.Sink,
		logger:  d.Logger,
	}
	clk := clock.Serialized(d.Clock, &c.mu)
	c.sim = progress.New(clk, d.Sink, d.Rand, cfg.Progress)
	c.queue = notify.New(clk, d.Sink, cfg.Notifications)
	c.presenter = present.New(d.Sink, c.queue, d.Saver, cfg.Service.BaseURL)
	c.install = install.New(d.Sink)
	return c
}

// SelectFile replaces the selected file. Any previous result and progress
// display are cleared.
func (c *Controller) SelectFile(f types.FileSelection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectFile(f)
}

func (c *Controller) selectFile(f types.FileSelection) {
	c.sel.SelectFile(f)
	c.resetOutput()
	c.sink.Apply(view.ShowFile{Name: f.Name, Size: view.FormatFileSize(f.SizeBytes)})
	c.queue.Push(IconUploaded, MessageUploaded, types.NotifySuccess)
	c.refreshButton()
	c.logger.Debug("file selected", "name", f.Name, "size", f.SizeBytes)
}

// RemoveFile clears the selected file. The format stays active.
func (c *Controller) RemoveFile() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel.RemoveFile()
	c.resetOutput()
	c.sink.Apply(view.ClearFile{})
	c.refreshButton()
	c.logger.Debug("file removed")
}

// SelectFormat makes format the active format. Formats outside the catalog
// are rejected with catalog.ErrUnknownFormat.
func (c *Controller) SelectFormat(format types.FormatChoice) error {
	if err := c.catalog.Validate(format); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel.SelectFormat(format)
	c.sink.Apply(view.ActivateFormat{Format: format})
	c.refreshButton()
	c.logger.Debug("format selected", "format", format)
	return nil
}

// CanConvert reports whether Convert would start a conversion now.
func (c *Controller) CanConvert() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.CanConvert() && !c.inFlight
}

// Convert sends the current file and format to the backend and renders the
// outcome. The progress simulator runs while the request is outstanding.
//
// A transport error or a declared failure raises an alert and is returned
// wrapped in ErrConversionFailed. Whatever happens, the convert button is
// restored before Convert returns.
func (c *Controller) Convert(ctx context.Context) (types.ConversionResult, error) {
	req, gen, err := c.beginConversion()
	if err != nil {
		return types.ConversionResult{}, err
	}
	c.logger.Info("converting", "file", req.File.Name, "format", req.Format)

	result, callErr := c.backend.Convert(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.endConversion()

	if gen != c.sel.Generation() {
		c.logger.Info("discarding response for replaced file", "file", req.File.Name)
		return result, ErrStale
	}

	if callErr != nil {
		c.logger.Warn("conversion request failed", "error", callErr)
		c.fail(callErr.Error())
		return result, fmt.Errorf("%w: %w", ErrConversionFailed, callErr)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = fallbackError
		}
		c.logger.Warn("conversion declared failure", "error", msg)
		c.fail(msg)
		return result, fmt.Errorf("%w: %s", ErrConversionFailed, msg)
	}

	c.presenter.Show(result, req)
	c.queue.Push(IconConverted, MessageConverted, types.NotifySuccess)
	c.logger.Info("conversion succeeded", "download_path", result.DownloadPath)
	return result, nil
}

func (c *Controller) beginConversion() (types.ConversionRequest, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return types.ConversionRequest{}, 0, ErrInFlight
	}
	req, ok := c.sel.Request()
	if !ok {
		return types.ConversionRequest{}, 0, ErrNotReady
	}
	if c.backend == nil {
		return types.ConversionRequest{}, 0, errors.New("no conversion backend configured")
	}

	c.inFlight = true
	c.sink.Apply(view.ConvertButton{Enabled: false, Busy: true})
	c.sink.Apply(view.ProgressVisible{Visible: true})
	c.sink.Apply(view.Status{Message: StatusConverting})
	c.presenter.Hide()
	c.sim.Start()
	return req, c.sel.Generation(), nil
}

func (c *Controller) endConversion() {
	c.inFlight = false
	c.refreshButton()
}

func (c *Controller) fail(msg string) {
	c.sink.Apply(view.Alert{Message: "Conversion failed: " + msg})
	c.sim.Cancel()
	c.hideProgress()
}

// Download fetches the converted artifact through the Saver. It returns ""
// and no error when there is no result to download.
func (c *Controller) Download(ctx context.Context) (string, error) {
	c.mu.Lock()
	d, ok := c.presenter.StartDownload()
	c.mu.Unlock()
	if !ok {
		return "", nil
	}
	c.logger.Info("downloading", "url", d.URL)
	return c.presenter.Fetch(ctx, d)
}

// DragOver highlights the upload area.
func (c *Controller) DragOver() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.Apply(view.DragHighlight{On: true})
}

// DragLeave removes the upload area highlight.
func (c *Controller) DragLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.Apply(view.DragHighlight{On: false})
}

// Drop removes the highlight and selects the first dropped file. Extra
// files are ignored.
func (c *Controller) Drop(files []types.FileSelection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.Apply(view.DragHighlight{On: false})
	if len(files) > 0 {
		c.selectFile(files[0])
	}
}

// OfferInstall records that the host can install the app and shows the
// install popup.
func (c *Controller) OfferInstall(p install.Prompter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.install.Offer(p)
}

// AcceptInstall runs the deferred install flow, if any.
func (c *Controller) AcceptInstall(ctx context.Context) (install.Outcome, error) {
	c.mu.Lock()
	p, ok := c.install.Take()
	c.mu.Unlock()
	if !ok {
		return "", nil
	}
	out, err := install.Run(ctx, p)
	if err != nil {
		return "", err
	}
	c.logger.Info("install prompt answered", "outcome", out)
	return out, nil
}

// CloseInstallPopup hides the install popup.
func (c *Controller) CloseInstallPopup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.install.Close()
}

// Selection returns the selected file and format.
func (c *Controller) Selection() (types.FileSelection, bool, types.FormatChoice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.sel.File()
	return f, ok, c.sel.Format()
}

// Progress returns the simulated percentage.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim.Value()
}

// Notifications returns the visible notifications in stacking order.
func (c *Controller) Notifications() []types.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Visible()
}

// DownloadPath returns the stored download path of the last success.
func (c *Controller) DownloadPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presenter.DownloadPath()
}

// Close stops every pending timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sim.Cancel()
	c.queue.Close()
}

// resetOutput hides the result and the progress section after the file
// changed.
func (c *Controller) resetOutput() {
	c.presenter.Hide()
	c.sim.Cancel()
	c.hideProgress()
}

func (c *Controller) hideProgress() {
	c.sink.Apply(view.ProgressVisible{Visible: false})
	c.sink.Apply(view.Progress{Percent: 0, Text: "0%"})
	c.sink.Apply(view.Status{Message: StatusConverting})
}

// refreshButton recomputes the convert button. While a conversion is in
// flight the button stays busy.
func (c *Controller) refreshButton() {
	if c.inFlight {
		return
	}
	c.sink.Apply(view.ConvertButton{Enabled: c.sel.CanConvert()})
}
