package models

import "time"

// Notification types.
const (
	NotificationDeadlineWarning   = "deadline_warning"
	NotificationDeadlineCritical  = "deadline_critical"
	NotificationChecklistReminder = "checklist_reminder"
	NotificationSystemAlert       = "system_alert"
)

// Notification priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Notification targets users by email or by role tag. A notification is
// visible to a user when their email is in TargetUsers or their role is in
// TargetRoles, and ExpiresAt (when set) has not passed. Expiry hides the
// notification at read time; it is physically removed only by the cleanup
// sweep.
type Notification struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Priority    string            `json:"priority"`
	TargetUsers []string          `json:"targetUsers"`
	TargetRoles []string          `json:"targetRoles"`
	Data        map[string]string `json:"data,omitempty"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	ReadBy      []string          `json:"readBy"`
}

// NewNotification is the caller-supplied part of a notification; the manager
// assigns the id, creation time and empty read set.
type NewNotification struct {
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Priority    string            `json:"priority"`
	TargetUsers []string          `json:"targetUsers"`
	TargetRoles []string          `json:"targetRoles"`
	Data        map[string]string `json:"data,omitempty"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`
}

// IsExpired reports whether the notification has an expiry in the past.
func (n Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(now)
}

// IsVisibleTo reports whether the notification targets the given user and is
// not expired at the given instant.
func (n Notification) IsVisibleTo(email, role string, now time.Time) bool {
	if n.IsExpired(now) {
		return false
	}
	for _, u := range n.TargetUsers {
		if u == email {
			return true
		}
	}
	for _, r := range n.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsReadBy reports whether the user already marked the notification read.
func (n Notification) IsReadBy(email string) bool {
	for _, u := range n.ReadBy {
		if u == email {
			return true
		}
	}
	return false
}
