// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify implements the transient notification stack. Every
// notification is removed on its own timers: it stays for the display
// duration, then plays an exit transition, then leaves the visible set.
// There is no deduplication, priority, or cap.
package notify

import (
	"github.com/google/uuid"

	"github.com/pdiddy/file-converter/internal/clock"
	"github.com/pdiddy/file-converter/internal/view"
	"github.com/pdiddy/file-converter/pkg/types"
)

type entry struct {
	n       types.Notification
	leaving bool
	task    clock.Task
}

// Queue is not safe for concurrent use; the controller calls it under its
// lock and gives it a serialized clock.
type Queue struct {
	clock   clock.Clock
	sink    view.Sink
	cfg     types.NotificationConfig
	entries []*entry
	newID   func() string
}

// New returns an empty Queue.
func New(c clock.Clock, sink view.Sink, cfg types.NotificationConfig) *Queue {
	return &Queue{
		clock: c,
		sink:  sink,
		cfg:   cfg.WithDefaults(),
		newID: func() string { return uuid.New().String() },
	}
}

// Push appends a notification and schedules its removal.
func (q *Queue) Push(icon, message string, kind types.NotificationKind) types.Notification {
	n := types.Notification{
		ID:        q.newID(),
		Icon:      icon,
		Message:   message,
		Kind:      kind,
		CreatedAt: q.clock.Now(),
	}
	e := &entry{n: n}
	q.entries = append(q.entries, e)
	q.sink.Apply(view.NotificationShown{Notification: n})

	e.task = q.clock.AfterFunc(q.cfg.DisplayDuration, func() { q.leave(e) })
	return n
}

// Visible returns the notifications currently on screen, including those
// in their exit transition, in stacking order.
func (q *Queue) Visible() []types.Notification {
	out := make([]types.Notification, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.n
	}
	return out
}

// Len returns the number of visible notifications.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Leaving reports whether the notification with id is in its exit
// transition.
func (q *Queue) Leaving(id string) bool {
	if e := q.find(id); e != nil {
		return e.leaving
	}
	return false
}

// Close cancels every pending timer. Visible notifications stay where they
// are.
func (q *Queue) Close() {
	for _, e := range q.entries {
		if e.task != nil {
			e.task.Stop()
			e.task = nil
		}
	}
}

func (q *Queue) leave(e *entry) {
	if q.find(e.n.ID) != e {
		return
	}
	e.leaving = true
	q.sink.Apply(view.NotificationLeaving{ID: e.n.ID})
	e.task = q.clock.AfterFunc(q.cfg.ExitDuration, func() { q.remove(e) })
}

func (q *Queue) remove(e *entry) {
	for i, cur := range q.entries {
		if cur == e {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			q.sink.Apply(view.NotificationRemoved{ID: e.n.ID})
			return
		}
	}
}

func (q *Queue) find(id string) *entry {
	for _, e := range q.entries {
		if e.n.ID == id {
			return e
		}
	}
	return nil
}
