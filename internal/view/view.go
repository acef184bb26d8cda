// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view carries UI updates from the controller to a renderer. The
// controller and its components never touch presentation state directly;
// they emit Commands into a Sink. Page keeps an in-memory model of the
// converter page, Terminal prints the interesting updates as status lines.
package view

import "github.com/pdiddy/file-converter/pkg/types"

// Command is a single one-directional view update.
type Command interface {
	command()
}

// Sink applies view commands. Implementations are called while the
// controller lock is held and must not call back into the controller.
type Sink interface {
	Apply(cmd Command)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Command)

func (f SinkFunc) Apply(cmd Command) { f(cmd) }

// Discard drops every command.
var Discard Sink = SinkFunc(func(Command) {})

// Multi fans every command out to each sink in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(cmd Command) {
		for _, s := range sinks {
			s.Apply(cmd)
		}
	})
}

// ShowFile displays the selected file and hides the upload area.
type ShowFile struct {
	Name string
	Size string
}

// ClearFile hides the file info and shows the upload area again.
type ClearFile struct{}

// DragHighlight toggles the upload area highlight during drag-over.
type DragHighlight struct {
	On bool
}

// ActivateFormat marks Format as the only active format pill.
type ActivateFormat struct {
	Format types.FormatChoice
}

// ConvertButton sets the convert button state. Busy shows the spinner and
// the "Converting..." label.
type ConvertButton struct {
	Enabled bool
	Busy    bool
}

// ProgressVisible shows or hides the progress section.
type ProgressVisible struct {
	Visible bool
}

// Progress sets the progress bar fill and label.
type Progress struct {
	Percent float64
	Text    string
}

// Status sets the message under the progress bar.
type Status struct {
	Message string
}

// ShowResult displays the converted file name and the optional preview.
type ShowResult struct {
	FileName   string
	Preview    string
	HasPreview bool
}

// HideResult hides the result section.
type HideResult struct{}

// Alert is a blocking error message.
type Alert struct {
	Message string
}

// NotificationShown adds a notification to the visible stack.
type NotificationShown struct {
	Notification types.Notification
}

// NotificationLeaving starts the exit transition of a notification.
type NotificationLeaving struct {
	ID string
}

// NotificationRemoved removes a notification from the visible stack.
type NotificationRemoved struct {
	ID string
}

// InstallPopup shows or hides the install-app popup.
type InstallPopup struct {
	Visible bool
}

func (ShowFile) command()            {}
func (ClearFile) command()           {}
func (DragHighlight) command()       {}
func (ActivateFormat) command()      {}
func (ConvertButton) command()       {}
func (ProgressVisible) command()     {}
func (Progress) command()            {}
func (Status) command()              {}
func (ShowResult) command()          {}
func (HideResult) command()          {}
func (Alert) command()               {}
func (NotificationShown) command()   {}
func (NotificationLeaving) command() {}
func (NotificationRemoved) command() {}
func (InstallPopup) command()        {}
