package models

import "time"

// NotificationKind enumerates the notification types the backend emits.
type NotificationKind string

const (
	KindInterviewProposed NotificationKind = "interview_proposed"
	KindOfferSent         NotificationKind = "offer_sent"
	KindMessage           NotificationKind = "message"
	KindApplicationUpdate NotificationKind = "application_update"
	KindSystem            NotificationKind = "system"
)

// Notification is an inbox entry. It is only ever mutated through mark-read.
type Notification struct {
	ID        string           `json:"id" yaml:"id"`
	Kind      NotificationKind `json:"kind" yaml:"kind"`
	Title     string           `json:"title" yaml:"title"`
	Message   string           `json:"message" yaml:"message"`
	IsRead    bool             `json:"is_read" yaml:"is_read"`
	Priority  string           `json:"priority" yaml:"priority"`
	Category  string           `json:"category" yaml:"category"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
}

// NotificationQuery selects the notification tab.
type NotificationQuery struct {
	UnreadOnly bool
	Category   string
}

// CountUnread returns the number of unread notifications.
func CountUnread(items []Notification) int {
	n := 0
	for _, item := range items {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// MarkRead returns a copy of items with id flagged read.
func MarkRead(items []Notification, id string) []Notification {
	out := make([]Notification, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].IsRead = true
		}
	}
	return out
}

// MarkAllRead returns a copy of items with every entry flagged read.
func MarkAllRead(items []Notification) []Notification {
	out := make([]Notification, len(items))
	copy(out, items)
	for i := range out {
		out[i].IsRead = true
	}
	return out
}
