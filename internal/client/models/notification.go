package models

import "time"

// Severity classifies a notification for rendering purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a short-lived user-facing message. A non-positive TTL makes
// the notification persistent until dismissed manually.
type Notification struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	TTL      time.Duration `json:"ttl"`
}
