package entities

import "time"

type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is the user-facing outcome message of an action (a toast).
type Notification struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Variant     NotificationVariant `json:"variant"`
	At          time.Time           `json:"at"`
}
