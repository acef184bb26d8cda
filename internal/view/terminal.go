// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal renders view commands as status lines on w. Layout-only updates
// (button state, visibility toggles) are dropped. Progress and status lines
// are printed only while the progress section is visible, and progress only
// when the label changes.
type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	visible  bool
	lastText string
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Apply implements Sink.
func (t *Terminal) Apply(cmd Command) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch c := cmd.(type) {
	case ShowFile:
		fmt.Fprintf(t.w, "file:      %s (%s)\n", c.Name, c.Size)
	case ClearFile:
		fmt.Fprintln(t.w, "file:      removed")
	case ActivateFormat:
		fmt.Fprintf(t.w, "format:    %s\n", c.Format)
	case Progress:
		if !t.visible || c.Text == t.lastText {
			return
		}
		t.lastText = c.Text
		fmt.Fprintf(t.w, "progress:  %s %s\n", bar(c.Percent), c.Text)
	case ProgressVisible:
		t.visible = c.Visible
		if !c.Visible {
			t.lastText = ""
		}
	case Status:
		if t.visible {
			fmt.Fprintf(t.w, "status:    %s\n", c.Message)
		}
	case ShowResult:
		fmt.Fprintf(t.w, "result:    %s\n", c.FileName)
		if c.HasPreview {
			fmt.Fprintln(t.w, "preview:")
			for _, line := range strings.Split(strings.TrimRight(c.Preview, "\n"), "\n") {
				fmt.Fprintf(t.w, "  %s\n", line)
			}
		}
	case Alert:
		fmt.Fprintf(t.w, "error:     %s\n", c.Message)
	case NotificationShown:
		fmt.Fprintf(t.w, "%s %s\n", c.Notification.Icon, c.Notification.Message)
	case InstallPopup:
		if c.Visible {
			fmt.Fprintln(t.w, "install:   this app can be installed")
		}
	}
}

const barWidth = 20

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}
