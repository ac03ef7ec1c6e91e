package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

// Default expiry windows for the convenience constructors.
const (
	deadlineWarningTTL   = 7 * 24 * time.Hour
	checklistReminderTTL = 3 * 24 * time.Hour
	systemAlertTTL       = 30 * 24 * time.Hour
)

// Alerter is the best-effort side channel fired on creation (the original
// dashboard used desktop notifications; the server uses SMTP). A nil alerter
// or a failing send is never an error.
type Alerter interface {
	Alert(n models.Notification) error
}

// NotificationService creates, targets, expires and tracks read-state for
// notifications. Expiry hides notifications at read time; only the cleanup
// sweep physically removes them.
type NotificationService struct {
	mu            sync.RWMutex
	store         storage.BlobStore
	alerter       Alerter
	notifications []models.Notification
	now           func() time.Time
}

func NewNotificationService(store storage.BlobStore, alerter Alerter) *NotificationService {
	s := &NotificationService{store: store, alerter: alerter, now: time.Now}
	s.loadSnapshot()
	return s
}

func (s *NotificationService) loadSnapshot() {
	data, err := s.store.Load(storage.KeyNotifications)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to load notification snapshot: %v", err)
		}
		return
	}
	var notifications []models.Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		log.Printf("Warning: discarding unreadable notification snapshot: %v", err)
		return
	}
	s.notifications = notifications
}

func (s *NotificationService) persist() {
	data, err := json.Marshal(s.notifications)
	if err != nil {
		log.Printf("Warning: failed to encode notifications: %v", err)
		return
	}
	if err := s.store.Save(storage.KeyNotifications, data); err != nil {
		log.Printf("Warning: failed to save notifications: %v", err)
	}
}

// CreateNotification assigns an id and creation time, appends, persists and
// fires the best-effort alert. Returns the new notification's id.
func (s *NotificationService) CreateNotification(n models.NewNotification) string {
	s.mu.Lock()

	notification := models.Notification{
		ID:          uuid.NewString(),
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Priority:    n.Priority,
		TargetUsers: n.TargetUsers,
		TargetRoles: n.TargetRoles,
		Data:        n.Data,
		ExpiresAt:   n.ExpiresAt,
		CreatedAt:   s.now(),
		ReadBy:      []string{},
	}
	if notification.TargetUsers == nil {
		notification.TargetUsers = []string{}
	}
	if notification.TargetRoles == nil {
		notification.TargetRoles = []string{}
	}

	s.notifications = append(s.notifications, notification)
	s.persist()
	s.mu.Unlock()

	if s.alerter != nil {
		if err := s.alerter.Alert(notification); err != nil {
			log.Printf("Warning: notification alert failed: %v", err)
		}
	}

	return notification.ID
}

// NotificationsForUser returns the non-expired notifications targeting the
// user's email or role, most recent first.
func (s *NotificationService) NotificationsForUser(email, role string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.IsVisibleTo(email, role, now) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MarkAsRead adds the email to the notification's read set. Idempotent; a
// missing id is a no-op.
func (s *NotificationService) MarkAsRead(id, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			if !s.notifications[i].IsReadBy(email) {
				s.notifications[i].ReadBy = append(s.notifications[i].ReadBy, email)
				s.persist()
			}
			return
		}
	}
}

// MarkAllAsRead applies the idempotent read-set add across every notification.
func (s *NotificationService) MarkAllAsRead(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if !s.notifications[i].IsReadBy(email) {
			s.notifications[i].ReadBy = append(s.notifications[i].ReadBy, email)
		}
	}
	s.persist()
}

// UnreadCount counts visible notifications the user has not read.
func (s *NotificationService) UnreadCount(email, role string) int {
	count := 0
	for _, n := range s.NotificationsForUser(email, role) {
		if !n.IsReadBy(email) {
			count++
		}
	}
	return count
}

// DeleteNotification removes the notification unconditionally.
func (s *NotificationService) DeleteNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
	s.persist()
}

// CleanupExpiredNotifications physically removes expired notifications and
// reports how many were dropped. Invoked by the periodic sweep and the admin
// cleanup endpoint, never implicitly on read.
func (s *NotificationService) CleanupExpiredNotifications() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.notifications[:0]
	removed := 0
	for _, n := range s.notifications {
		if n.IsExpired(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.notifications = kept
	if removed > 0 {
		s.persist()
	}
	return removed
}

// CreateDeadlineWarning targets the fiscal roles plus any explicit emails.
// Priority escalates once the deadline is a week or less away.
func (s *NotificationService) CreateDeadlineWarning(contratoID, contratoNumero string, daysUntilDeadline int, targetEmails []string) string {
	priority := models.PriorityMedium
	notificationType := models.NotificationDeadlineWarning
	if daysUntilDeadline <= 7 {
		priority = models.PriorityHigh
		notificationType = models.NotificationDeadlineCritical
	}
	expiresAt := s.now().Add(deadlineWarningTTL)

	return s.CreateNotification(models.NewNotification{
		Type:     notificationType,
		Title:    "Prazo de Contrato se Aproximando",
		Message:  fmt.Sprintf("O contrato %s vence em %d dias. Verifique o status da fiscalização.", contratoNumero, daysUntilDeadline),
		Priority: priority,
		TargetUsers: targetEmails,
		TargetRoles: []string{models.RoleFiscalAdministrativo, models.RoleFiscalTecnico, models.RoleFiscal},
		Data: map[string]string{
			"contratoId":        contratoID,
			"daysUntilDeadline": fmt.Sprintf("%d", daysUntilDeadline),
		},
		ExpiresAt: &expiresAt,
	})
}

// CreateChecklistReminder targets a single fiscal; priority escalates while
// progress is under half.
func (s *NotificationService) CreateChecklistReminder(contratoID, contratoNumero, fiscalEmail string, progressPercentage int) string {
	priority := models.PriorityMedium
	if progressPercentage < 50 {
		priority = models.PriorityHigh
	}
	expiresAt := s.now().Add(checklistReminderTTL)

	return s.CreateNotification(models.NewNotification{
		Type:     models.NotificationChecklistReminder,
		Title:    "Checklist Incompleto",
		Message:  fmt.Sprintf("O checklist do contrato %s está %d%% completo. Continue o preenchimento.", contratoNumero, progressPercentage),
		Priority: priority,
		TargetUsers: []string{fiscalEmail},
		TargetRoles: []string{},
		Data: map[string]string{
			"contratoId":         contratoID,
			"progressPercentage": fmt.Sprintf("%d", progressPercentage),
		},
		ExpiresAt: &expiresAt,
	})
}

// CreateSystemAlert targets roles with a caller-chosen priority.
func (s *NotificationService) CreateSystemAlert(title, message string, targetRoles []string, priority string) string {
	if priority == "" {
		priority = models.PriorityMedium
	}
	expiresAt := s.now().Add(systemAlertTTL)

	return s.CreateNotification(models.NewNotification{
		Type:        models.NotificationSystemAlert,
		Title:       title,
		Message:     message,
		Priority:    priority,
		TargetUsers: []string{},
		TargetRoles: targetRoles,
		ExpiresAt:   &expiresAt,
	})
}
