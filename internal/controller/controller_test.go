// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/internal/clock"
	"github.com/pdiddy/file-converter/internal/convert"
	"github.com/pdiddy/file-converter/internal/install"
	"github.com/pdiddy/file-converter/internal/progress"
	"github.com/pdiddy/file-converter/internal/view"
	"github.com/pdiddy/file-converter/pkg/types"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

type fakeSaver struct {
	url, suggested string
}

func (f *fakeSaver) Save(_ context.Context, url, suggested string) (string, error) {
	f.url = url
	f.suggested = suggested
	return "/out/" + suggested, nil
}

type harness struct {
	ctrl  *Controller
	clock *clock.Manual
	page  *view.Page
	saver *fakeSaver
}

func newHarness(t *testing.T, backend convert.Backend) *harness {
	t.Helper()
	h := &harness{
		clock: clock.NewManual(epoch),
		page:  view.NewPage(),
		saver: &fakeSaver{},
	}
	h.ctrl = New(Deps{
		Config:  types.ClientConfig{Service: types.ServiceConfig{BaseURL: "http://svc"}},
		Backend: backend,
		Saver:   h.saver,
		Sink:    h.page,
		Clock:   h.clock,
		Rand:    fixedSource(0.5),
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func respond(result types.ConversionResult, err error) convert.Backend {
	return convert.BackendFunc(func(context.Context, types.ConversionRequest) (types.ConversionResult, error) {
		return result, err
	})
}

func csvFile() types.FileSelection {
	return types.BytesFile("report.v2.csv", make([]byte, 1536))
}

func TestCanConvert(t *testing.T) {
	tests := []struct {
		name   string
		file   bool
		format bool
		want   bool
	}{
		{"nothing", false, false, false},
		{"file only", true, false, false},
		{"format only", false, true, false},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, respond(types.ConversionResult{}, nil))
			if tt.file {
				h.ctrl.SelectFile(csvFile())
			}
			if tt.format {
				require.NoError(t, h.ctrl.SelectFormat("pdf"))
			}
			assert.Equal(t, tt.want, h.ctrl.CanConvert())
			assert.Equal(t, tt.want, h.page.Snapshot().ConvertEnabled)
		})
	}
}

func TestSelectFile(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.SelectFile(csvFile())

	s := h.page.Snapshot()
	assert.False(t, s.UploadAreaVisible)
	assert.True(t, s.FileInfoVisible)
	assert.Equal(t, "report.v2.csv", s.FileName)
	assert.Equal(t, "1.5 KB", s.FileSize)

	ns := h.ctrl.Notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, IconUploaded, ns[0].Icon)
	assert.Equal(t, MessageUploaded, ns[0].Message)
	assert.Equal(t, types.NotifySuccess, ns[0].Kind)

	other := types.BytesFile("b.txt", []byte("b"))
	h.ctrl.SelectFile(other)
	f, ok, _ := h.ctrl.Selection()
	require.True(t, ok)
	assert.Equal(t, "b.txt", f.Name, "a new pick replaces the selection")
}

func TestSelectFormat_SingleActive(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.SelectFormat("pdf"))
	require.NoError(t, h.ctrl.SelectFormat("docx"))

	_, _, format := h.ctrl.Selection()
	assert.Equal(t, types.FormatChoice("docx"), format)
	assert.Equal(t, types.FormatChoice("docx"), h.page.Snapshot().ActiveFormat)
}

func TestSelectFormat_Unknown(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.SelectFormat("pdf"))

	err := h.ctrl.SelectFormat("exe")
	assert.ErrorIs(t, err, catalog.ErrUnknownFormat)
	_, _, format := h.ctrl.Selection()
	assert.Equal(t, types.FormatChoice("pdf"), format)
}

func TestRemoveFile(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.RemoveFile()
	assert.True(t, h.page.Snapshot().UploadAreaVisible, "removing nothing is harmless")

	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))
	require.True(t, h.ctrl.CanConvert())

	h.ctrl.RemoveFile()

	assert.False(t, h.ctrl.CanConvert())
	_, ok, format := h.ctrl.Selection()
	assert.False(t, ok)
	assert.Equal(t, types.FormatChoice("pdf"), format, "format survives file removal")

	s := h.page.Snapshot()
	assert.True(t, s.UploadAreaVisible)
	assert.False(t, s.FileInfoVisible)
	assert.False(t, s.ConvertEnabled)

	h.ctrl.SelectFile(csvFile())
	assert.True(t, h.ctrl.CanConvert())
}

func TestConvert_NotReady(t *testing.T) {
	h := newHarness(t, respond(types.ConversionResult{Success: true}, nil))
	h.ctrl.SelectFile(csvFile())
	before := h.page.Snapshot()

	_, err := h.ctrl.Convert(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, before, h.page.Snapshot(), "no UI change")
}

func TestConvert_Success(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantPreview bool
	}{
		{"text content shows preview", "col a, col b", true},
		{"no text content hides preview", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got types.ConversionRequest
			h := newHarness(t, convert.BackendFunc(func(_ context.Context, req types.ConversionRequest) (types.ConversionResult, error) {
				got = req
				return types.ConversionResult{Success: true, DownloadPath: "abc.pdf", TextContent: tt.text}, nil
			}))
			h.ctrl.SelectFile(csvFile())
			require.NoError(t, h.ctrl.SelectFormat("pdf"))

			res, err := h.ctrl.Convert(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, "report.v2.csv", got.File.Name)
			assert.Equal(t, types.FormatChoice("pdf"), got.Format)

			s := h.page.Snapshot()
			assert.True(t, s.ResultVisible)
			assert.Equal(t, "report.pdf", s.ResultFileName)
			assert.Equal(t, tt.wantPreview, s.PreviewVisible)
			assert.False(t, s.ProgressVisible)
			assert.True(t, s.ConvertEnabled)
			assert.Equal(t, view.LabelConvert, s.ButtonText)
			assert.False(t, s.SpinnerVisible)
			assert.Empty(t, s.Alerts)
			assert.Equal(t, "abc.pdf", h.ctrl.DownloadPath())

			ns := h.ctrl.Notifications()
			require.Len(t, ns, 2)
			assert.Equal(t, MessageConverted, ns[1].Message)
			assert.Equal(t, IconConverted, ns[1].Icon)
		})
	}
}

func TestConvert_Failures(t *testing.T) {
	tests := []struct {
		name      string
		result    types.ConversionResult
		err       error
		wantAlert string
	}{
		{
			name:      "declared failure",
			result:    types.ConversionResult{Success: false, Error: "unsupported codec"},
			wantAlert: "Conversion failed: unsupported codec",
		},
		{
			name:      "declared failure without message",
			result:    types.ConversionResult{Success: false},
			wantAlert: "Conversion failed: " + fallbackError,
		},
		{
			name:      "transport failure",
			err:       errors.New("connection reset by peer"),
			wantAlert: "Conversion failed: connection reset by peer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, respond(tt.result, tt.err))
			h.ctrl.SelectFile(csvFile())
			require.NoError(t, h.ctrl.SelectFormat("pdf"))

			_, err := h.ctrl.Convert(context.Background())
			assert.ErrorIs(t, err, ErrConversionFailed)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}

			s := h.page.Snapshot()
			require.Len(t, s.Alerts, 1)
			assert.Equal(t, tt.wantAlert, s.Alerts[0])
			assert.False(t, s.ProgressVisible)
			assert.Equal(t, "0%", s.ProgressText)
			assert.Zero(t, s.ProgressPercent)
			assert.Equal(t, StatusConverting, s.StatusMessage)
			assert.False(t, s.ResultVisible)
			assert.True(t, s.ConvertEnabled)
			assert.Equal(t, view.LabelConvert, s.ButtonText)
			assert.True(t, h.ctrl.CanConvert())

			h.clock.Advance(5 * time.Second)
			assert.Equal(t, "0%", h.page.Snapshot().ProgressText, "a failed run does not complete the hidden bar")
		})
	}
}

// blockingBackend holds each request until released.
type blockingBackend struct {
	started chan struct{}
	release chan struct{}
	result  types.ConversionResult
}

func newBlockingBackend(result types.ConversionResult) *blockingBackend {
	return &blockingBackend{started: make(chan struct{}), release: make(chan struct{}), result: result}
}

func (b *blockingBackend) Convert(ctx context.Context, _ types.ConversionRequest) (types.ConversionResult, error) {
	close(b.started)
	select {
	case <-b.release:
		return b.result, nil
	case <-ctx.Done():
		return types.ConversionResult{}, ctx.Err()
	}
}

type convertOutcome struct {
	res types.ConversionResult
	err error
}

func startConvert(c *Controller) <-chan convertOutcome {
	done := make(chan convertOutcome, 1)
	go func() {
		res, err := c.Convert(context.Background())
		done <- convertOutcome{res, err}
	}()
	return done
}

func TestConvert_InFlight(t *testing.T) {
	b := newBlockingBackend(types.ConversionResult{Success: true, DownloadPath: "x.pdf"})
	h := newHarness(t, b)
	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))

	done := startConvert(h.ctrl)
	<-b.started

	s := h.page.Snapshot()
	assert.False(t, s.ConvertEnabled)
	assert.True(t, s.SpinnerVisible)
	assert.Equal(t, view.LabelConverting, s.ButtonText)
	assert.True(t, s.ProgressVisible)
	assert.Equal(t, StatusConverting, s.StatusMessage)
	assert.False(t, h.ctrl.CanConvert())

	_, err := h.ctrl.Convert(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	require.NoError(t, h.ctrl.SelectFormat("docx"))
	assert.False(t, h.page.Snapshot().ConvertEnabled, "button stays busy while in flight")

	close(b.release)
	out := <-done
	require.NoError(t, out.err)
	assert.True(t, h.ctrl.CanConvert())
	assert.Equal(t, view.LabelConvert, h.page.Snapshot().ButtonText)
}

func TestConvert_ProgressRunsDuringRequest(t *testing.T) {
	var h *harness
	h = newHarness(t, convert.BackendFunc(func(context.Context, types.ConversionRequest) (types.ConversionResult, error) {
		// 0.5 * 15 per tick: 7.5% every 200ms.
		h.clock.Advance(400 * time.Millisecond)
		assert.Equal(t, 15.0, h.ctrl.Progress())
		assert.Equal(t, "15%", h.page.Snapshot().ProgressText)

		h.clock.Advance(1600 * time.Millisecond)
		assert.Equal(t, 100.0, h.ctrl.Progress())
		assert.Equal(t, progress.StatusComplete, h.page.Snapshot().StatusMessage)
		assert.True(t, h.page.Snapshot().SpinnerVisible, "forced completion does not wait for the response")
		return types.ConversionResult{Success: true, DownloadPath: "x.pdf"}, nil
	}))
	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))

	_, err := h.ctrl.Convert(context.Background())
	require.NoError(t, err)
}

func TestConvert_SuccessDoesNotStopSimulator(t *testing.T) {
	h := newHarness(t, respond(types.ConversionResult{Success: true, DownloadPath: "x.pdf"}, nil))
	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))

	_, err := h.ctrl.Convert(context.Background())
	require.NoError(t, err)
	assert.Zero(t, h.ctrl.Progress())

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 100.0, h.ctrl.Progress())
	assert.Equal(t, progress.StatusComplete, h.page.Snapshot().StatusMessage)
}

func TestConvert_StaleResponseDiscarded(t *testing.T) {
	b := newBlockingBackend(types.ConversionResult{Success: true, DownloadPath: "old.pdf", TextContent: "old"})
	h := newHarness(t, b)
	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))

	done := startConvert(h.ctrl)
	<-b.started
	h.ctrl.SelectFile(types.BytesFile("new.docx", []byte("n")))
	close(b.release)

	out := <-done
	assert.ErrorIs(t, out.err, ErrStale)

	s := h.page.Snapshot()
	assert.False(t, s.ResultVisible)
	assert.Empty(t, s.Alerts)
	assert.True(t, s.ConvertEnabled)
	assert.Equal(t, view.LabelConvert, s.ButtonText)
	assert.Empty(t, h.ctrl.DownloadPath())
	for _, n := range h.ctrl.Notifications() {
		assert.NotEqual(t, MessageConverted, n.Message)
	}
}

func TestConvert_RemovedDuringRequest(t *testing.T) {
	b := newBlockingBackend(types.ConversionResult{Success: true, DownloadPath: "old.pdf"})
	h := newHarness(t, b)
	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))

	done := startConvert(h.ctrl)
	<-b.started
	h.ctrl.RemoveFile()
	close(b.release)

	out := <-done
	assert.ErrorIs(t, out.err, ErrStale)
	s := h.page.Snapshot()
	assert.False(t, s.ConvertEnabled)
	assert.False(t, s.SpinnerVisible)
	assert.False(t, s.ResultVisible)
}

func TestDownload(t *testing.T) {
	h := newHarness(t, respond(types.ConversionResult{Success: true, DownloadPath: "abc 1.pdf"}, nil))

	path, err := h.ctrl.Download(context.Background())
	require.NoError(t, err)
	assert.Empty(t, path, "nothing to download before a conversion")
	assert.Empty(t, h.saver.url)

	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))
	_, err = h.ctrl.Convert(context.Background())
	require.NoError(t, err)

	path, err = h.ctrl.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://svc/download/abc%201.pdf", h.saver.url)
	assert.Equal(t, "report.pdf", h.saver.suggested)
	assert.Equal(t, "/out/report.pdf", path)

	ns := h.ctrl.Notifications()
	require.NotEmpty(t, ns)
	last := ns[len(ns)-1]
	assert.Equal(t, "💾", last.Icon)
	assert.Equal(t, "Download started!", last.Message)
	assert.Equal(t, types.NotifyDownload, last.Kind)
}

func TestNotifications_Expire(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.SelectFile(csvFile())
	h.clock.Advance(time.Second)
	h.ctrl.SelectFile(csvFile())
	require.Len(t, h.ctrl.Notifications(), 2)

	h.clock.Advance(2400 * time.Millisecond)
	assert.Len(t, h.ctrl.Notifications(), 1, "first one gone after 3.4s")
	assert.Len(t, h.page.Snapshot().Notifications, 1)

	h.clock.Advance(time.Second)
	assert.Empty(t, h.ctrl.Notifications())
}

func TestDragAndDrop(t *testing.T) {
	h := newHarness(t, nil)

	h.ctrl.DragOver()
	assert.True(t, h.page.Snapshot().DragOver)
	h.ctrl.DragLeave()
	assert.False(t, h.page.Snapshot().DragOver)

	h.ctrl.DragOver()
	h.ctrl.Drop(nil)
	assert.False(t, h.page.Snapshot().DragOver)
	_, ok, _ := h.ctrl.Selection()
	assert.False(t, ok)

	h.ctrl.Drop([]types.FileSelection{csvFile(), types.BytesFile("second.txt", nil)})
	f, ok, _ := h.ctrl.Selection()
	require.True(t, ok)
	assert.Equal(t, "report.v2.csv", f.Name)
}

func TestInstall(t *testing.T) {
	h := newHarness(t, nil)

	out, err := h.ctrl.AcceptInstall(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)

	h.ctrl.OfferInstall(install.PrompterFunc(func(context.Context) (install.Outcome, error) {
		return install.Accepted, nil
	}))
	assert.True(t, h.page.Snapshot().InstallPopupVisible)

	h.ctrl.CloseInstallPopup()
	assert.False(t, h.page.Snapshot().InstallPopupVisible)

	out, err = h.ctrl.AcceptInstall(context.Background())
	require.NoError(t, err)
	assert.Equal(t, install.Accepted, out)
}

func TestClose_StopsTimers(t *testing.T) {
	h := newHarness(t, respond(types.ConversionResult{Success: true, DownloadPath: "x"}, nil))
	h.ctrl.SelectFile(csvFile())
	require.NoError(t, h.ctrl.SelectFormat("pdf"))
	_, err := h.ctrl.Convert(context.Background())
	require.NoError(t, err)
	require.NotZero(t, h.clock.Pending())

	h.ctrl.Close()
	assert.Zero(t, h.clock.Pending())
}
