// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// NotificationKind selects the visual style of a notification.
type NotificationKind string

const (
	NotifySuccess  NotificationKind = "success"
	NotifyDownload NotificationKind = "download"
	NotifyError    NotificationKind = "error"
	NotifyInfo     NotificationKind = "info"
)

// Notification is a transient user-facing message. Each one is removed on
// its own timer; none are persisted.
type Notification struct {
	ID        string           `json:"id"`
	Icon      string           `json:"icon"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}
