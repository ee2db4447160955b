// internal/core/domain/notification.go
package domain

import "time"

// NotificationSeverity drives toast styling
type NotificationSeverity string

// Notification severities
const (
	NotifySuccess NotificationSeverity = "success"
	NotifyError   NotificationSeverity = "error"
	NotifyWarn    NotificationSeverity = "warn"
	NotifyInfo    NotificationSeverity = "info"
)

// Display lifetimes per severity
const (
	SuccessLife = 3 * time.Second
	ErrorLife   = 5 * time.Second
	WarnLife    = 4 * time.Second
)

// Notification is a transient operator message that auto-dismisses after Life
type Notification struct {
	ID        string               `json:"id"`
	Severity  NotificationSeverity `json:"severity"`
	Summary   string               `json:"summary"`
	Detail    string               `json:"detail"`
	CreatedAt time.Time            `json:"created_at"`
	Life      time.Duration        `json:"life"`
}

// ExpiresAt returns when the notification stops being shown
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.Life)
}

// Success builds a success notification
func Success(summary, detail string) Notification {
	return Notification{Severity: NotifySuccess, Summary: summary, Detail: detail, Life: SuccessLife}
}

// Failure builds an error notification
func Failure(summary, detail string) Notification {
	return Notification{Severity: NotifyError, Summary: summary, Detail: detail, Life: ErrorLife}
}

// Warning builds a warning notification
func Warning(summary, detail string) Notification {
	return Notification{Severity: NotifyWarn, Summary: summary, Detail: detail, Life: WarnLife}
}
