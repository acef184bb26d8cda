// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"sync"

	"github.com/pdiddy/file-converter/pkg/types"
)

const (
	LabelConvert    = "Convert File"
	LabelConverting = "Converting..."
)

// PageNotification is a notification as it appears on the page.
type PageNotification struct {
	types.Notification
	Leaving bool
}

// PageState is a snapshot of the converter page.
type PageState struct {
	UploadAreaVisible bool
	DragOver          bool
	FileInfoVisible   bool
	FileName          string
	FileSize          string

	ActiveFormat types.FormatChoice

	ConvertEnabled bool
	ButtonText     string
	SpinnerVisible bool

	ProgressVisible bool
	ProgressPercent float64
	ProgressText    string
	StatusMessage   string

	ResultVisible  bool
	ResultFileName string
	PreviewVisible bool
	PreviewText    string

	Alerts        []string
	Notifications []PageNotification

	InstallPopupVisible bool
}

// Page is an in-memory model of the converter page. It is safe for
// concurrent use.
type Page struct {
	mu    sync.Mutex
	state PageState
}

// NewPage returns a Page in its initial state: upload area shown, convert
// disabled, progress and result hidden.
func NewPage() *Page {
	return &Page{state: PageState{
		UploadAreaVisible: true,
		ButtonText:        LabelConvert,
		ProgressText:      "0%",
		StatusMessage:     LabelConverting,
	}}
}

// Apply implements Sink.
func (p *Page) Apply(cmd Command) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &p.state

	switch c := cmd.(type) {
	case ShowFile:
		s.FileName = c.Name
		s.FileSize = c.Size
		s.UploadAreaVisible = false
		s.FileInfoVisible = true
	case ClearFile:
		s.FileName = ""
		s.FileSize = ""
		s.UploadAreaVisible = true
		s.FileInfoVisible = false
	case DragHighlight:
		s.DragOver = c.On
	case ActivateFormat:
		s.ActiveFormat = c.Format
	case ConvertButton:
		s.ConvertEnabled = c.Enabled
		s.SpinnerVisible = c.Busy
		if c.Busy {
			s.ButtonText = LabelConverting
		} else {
			s.ButtonText = LabelConvert
		}
	case ProgressVisible:
		s.ProgressVisible = c.Visible
	case Progress:
		s.ProgressPercent = c.Percent
		s.ProgressText = c.Text
	case Status:
		s.StatusMessage = c.Message
	case ShowResult:
		s.ResultVisible = true
		s.ResultFileName = c.FileName
		s.PreviewVisible = c.HasPreview
		if c.HasPreview {
			s.PreviewText = c.Preview
		}
	case HideResult:
		s.ResultVisible = false
	case Alert:
		s.Alerts = append(s.Alerts, c.Message)
	case NotificationShown:
		s.Notifications = append(s.Notifications, PageNotification{Notification: c.Notification})
	case NotificationLeaving:
		for i := range s.Notifications {
			if s.Notifications[i].ID == c.ID {
				s.Notifications[i].Leaving = true
			}
		}
	case NotificationRemoved:
		for i := range s.Notifications {
			if s.Notifications[i].ID == c.ID {
				s.Notifications = append(s.Notifications[:i], s.Notifications[i+1:]...)
				break
			}
		}
	case InstallPopup:
		s.InstallPopupVisible = c.Visible
	}
}

// Snapshot returns a copy of the current page state.
func (p *Page) Snapshot() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.state
	out.Alerts = append([]string(nil), p.state.Alerts...)
	out.Notifications = append([]PageNotification(nil), p.state.Notifications...)
	return out
}

// LastAlert returns the most recent alert, or "" if none was raised.
func (p *Page) LastAlert() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.state.Alerts) == 0 {
		return ""
	}
	return p.state.Alerts[len(p.state.Alerts)-1]
}
