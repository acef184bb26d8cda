// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package install handles the installable-app prompt. The host announces
// that installation is available by handing over a deferred Prompter; the
// popup stays up until the user accepts or closes it.
package install

import (
	"context"
	"fmt"

	"github.com/pdiddy/file-converter/internal/view"
)

// Outcome is the user's answer to the host install dialog.
type Outcome string

const (
	Accepted  Outcome = "accepted"
	Dismissed Outcome = "dismissed"
)

// Prompter runs the host's install flow. It may be used once.
type Prompter interface {
	Prompt(ctx context.Context) (Outcome, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context) (Outcome, error)

func (f PrompterFunc) Prompt(ctx context.Context) (Outcome, error) { return f(ctx) }

// Prompt tracks the deferred prompter and the popup. It is not safe for
// concurrent use.
type Prompt struct {
	sink     view.Sink
	deferred Prompter
}

// New returns a Prompt with no install available.
func New(sink view.Sink) *Prompt {
	return &Prompt{sink: sink}
}

// Offer stores p and shows the install popup.
func (ip *Prompt) Offer(p Prompter) {
	ip.deferred = p
	ip.sink.Apply(view.InstallPopup{Visible: true})
}

// Available reports whether a deferred prompter is stored.
func (ip *Prompt) Available() bool {
	return ip.deferred != nil
}

// Take removes and returns the deferred prompter, closing the popup. ok is
// false when none was offered; the popup is left alone in that case.
func (ip *Prompt) Take() (p Prompter, ok bool) {
	if ip.deferred == nil {
		return nil, false
	}
	p = ip.deferred
	ip.deferred = nil
	ip.Close()
	return p, true
}

// Accept runs the host install flow if one was offered. Without an offer it
// does nothing and returns "".
func (ip *Prompt) Accept(ctx context.Context) (Outcome, error) {
	p, ok := ip.Take()
	if !ok {
		return "", nil
	}
	return Run(ctx, p)
}

// Close hides the popup. A stored prompter stays available.
func (ip *Prompt) Close() {
	ip.sink.Apply(view.InstallPopup{Visible: false})
}

// Run invokes p's install flow.
func Run(ctx context.Context, p Prompter) (Outcome, error) {
	out, err := p.Prompt(ctx)
	if err != nil {
		return "", fmt.Errorf("install prompt: %w", err)
	}
	return out, nil
}
