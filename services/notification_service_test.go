package services

import (
	"errors"
	"testing"
	"time"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

type recordingAlerter struct {
	alerts []models.Notification
	fail   bool
}

func (a *recordingAlerter) Alert(n models.Notification) error {
	a.alerts = append(a.alerts, n)
	if a.fail {
		return errors.New("smtp down")
	}
	return nil
}

func newNotificationService(t *testing.T) *NotificationService {
	t.Helper()
	return NewNotificationService(storage.NewMemoryStore(), nil)
}

func systemAlertFor(roles ...string) models.NewNotification {
	return models.NewNotification{
		Type:        models.NotificationSystemAlert,
		Title:       "Manutenção",
		Message:     "O sistema ficará indisponível hoje à noite.",
		Priority:    models.PriorityMedium,
		TargetRoles: roles,
	}
}

func TestNotificationsForUserMatchesEmailOrRole(t *testing.T) {
	svc := newNotificationService(t)

	byRole := svc.CreateNotification(systemAlertFor(models.RoleFiscal))
	byEmail := svc.CreateNotification(models.NewNotification{
		Type:        models.NotificationChecklistReminder,
		Title:       "Checklist",
		Message:     "Continue o preenchimento.",
		Priority:    models.PriorityHigh,
		TargetUsers: []string{"fiscal@example.com"},
	})
	svc.CreateNotification(systemAlertFor(models.RoleAdmin))

	got := svc.NotificationsForUser("fiscal@example.com", models.RoleFiscal)
	if len(got) != 2 {
		t.Fatalf("expected 2 visible notifications, got %d", len(got))
	}
	ids := map[string]bool{got[0].ID: true, got[1].ID: true}
	if !ids[byRole] || !ids[byEmail] {
		t.Fatalf("wrong notifications returned: %+v", got)
	}
}

func TestExpiredNotificationHiddenWithoutCleanup(t *testing.T) {
	svc := newNotificationService(t)

	past := time.Now().Add(-time.Second)
	n := systemAlertFor(models.RoleFiscal)
	n.ExpiresAt = &past
	id := svc.CreateNotification(n)

	if got := svc.NotificationsForUser("x@x.com", models.RoleFiscal); len(got) != 0 {
		t.Fatalf("expired notification must be hidden, got %d", len(got))
	}

	// Hidden, not deleted: the cleanup sweep still finds it.
	if removed := svc.CleanupExpiredNotifications(); removed != 1 {
		t.Fatalf("expected cleanup to remove 1, removed %d", removed)
	}
	_ = id
}

func TestNotificationsSortedByCreatedAtDescending(t *testing.T) {
	svc := newNotificationService(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, off := range []time.Duration{time.Hour, 3 * time.Hour, 2 * time.Hour} {
		ts := base.Add(off)
		svc.now = func() time.Time { return ts }
		svc.CreateNotification(systemAlertFor(models.RoleFiscal))
	}
	svc.now = func() time.Time { return base.Add(4 * time.Hour) }

	got := svc.NotificationsForUser("fiscal@example.com", models.RoleFiscal)
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("notifications not sorted descending at index %d", i)
		}
	}
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	svc := newNotificationService(t)
	id := svc.CreateNotification(systemAlertFor(models.RoleFiscal))

	svc.MarkAsRead(id, "fiscal@example.com")
	svc.MarkAsRead(id, "fiscal@example.com")

	got := svc.NotificationsForUser("fiscal@example.com", models.RoleFiscal)
	if len(got[0].ReadBy) != 1 || got[0].ReadBy[0] != "fiscal@example.com" {
		t.Fatalf("readBy must contain the email exactly once: %v", got[0].ReadBy)
	}

	// Unknown id is a no-op.
	svc.MarkAsRead("missing", "fiscal@example.com")
}

func TestMarkAllAsRead(t *testing.T) {
	svc := newNotificationService(t)
	svc.CreateNotification(systemAlertFor(models.RoleFiscal))
	svc.CreateNotification(systemAlertFor(models.RoleFiscal))

	svc.MarkAllAsRead("fiscal@example.com")
	if got := svc.UnreadCount("fiscal@example.com", models.RoleFiscal); got != 0 {
		t.Fatalf("expected 0 unread after mark-all, got %d", got)
	}
}

func TestUnreadCountMatchesVisibleUnreadFilter(t *testing.T) {
	svc := newNotificationService(t)

	first := svc.CreateNotification(systemAlertFor(models.RoleFiscal))
	svc.CreateNotification(systemAlertFor(models.RoleFiscal))
	past := time.Now().Add(-time.Minute)
	expired := systemAlertFor(models.RoleFiscal)
	expired.ExpiresAt = &past
	svc.CreateNotification(expired)

	svc.MarkAsRead(first, "fiscal@example.com")

	visible := svc.NotificationsForUser("fiscal@example.com", models.RoleFiscal)
	unreadFiltered := 0
	for _, n := range visible {
		if !n.IsReadBy("fiscal@example.com") {
			unreadFiltered++
		}
	}

	if got := svc.UnreadCount("fiscal@example.com", models.RoleFiscal); got != unreadFiltered {
		t.Fatalf("UnreadCount %d diverges from filtered visible count %d", got, unreadFiltered)
	}
	if got := svc.UnreadCount("fiscal@example.com", models.RoleFiscal); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}
}

func TestDeleteNotificationRemovesUnconditionally(t *testing.T) {
	svc := newNotificationService(t)
	id := svc.CreateNotification(systemAlertFor(models.RoleFiscal))

	svc.DeleteNotification(id)
	if got := svc.NotificationsForUser("fiscal@example.com", models.RoleFiscal); len(got) != 0 {
		t.Fatalf("expected deleted notification to disappear, got %d", len(got))
	}
}

func TestAlerterFailureIsSwallowed(t *testing.T) {
	alerter := &recordingAlerter{fail: true}
	svc := NewNotificationService(storage.NewMemoryStore(), alerter)

	id := svc.CreateNotification(systemAlertFor(models.RoleFiscal))
	if id == "" {
		t.Fatal("creation must succeed despite alert failure")
	}
	if len(alerter.alerts) != 1 {
		t.Fatalf("expected 1 alert attempt, got %d", len(alerter.alerts))
	}
}

func TestDeadlineWarningTemplating(t *testing.T) {
	svc := newNotificationService(t)

	svc.CreateDeadlineWarning("1", "001/2024", 5, []string{"gestor@example.com"})
	svc.CreateDeadlineWarning("2", "002/2024", 20, nil)

	urgent := svc.NotificationsForUser("gestor@example.com", "")
	if len(urgent) != 1 {
		t.Fatalf("expected 1 direct-targeted warning, got %d", len(urgent))
	}
	if urgent[0].Type != models.NotificationDeadlineCritical || urgent[0].Priority != models.PriorityHigh {
		t.Fatalf("5-day warning must escalate: %+v", urgent[0])
	}

	byRole := svc.NotificationsForUser("x@x.com", models.RoleFiscalTecnico)
	if len(byRole) != 2 {
		t.Fatalf("expected both warnings for fiscal role, got %d", len(byRole))
	}
	var distant models.Notification
	for _, n := range byRole {
		if n.Data["contratoId"] == "2" {
			distant = n
		}
	}
	if distant.Type != models.NotificationDeadlineWarning || distant.Priority != models.PriorityMedium {
		t.Fatalf("20-day warning must stay medium: %+v", distant)
	}
}

func TestChecklistReminderPriorityByProgress(t *testing.T) {
	svc := newNotificationService(t)

	svc.CreateChecklistReminder("1", "001/2024", "fiscal@example.com", 30)
	svc.CreateChecklistReminder("1", "001/2024", "fiscal@example.com", 80)

	got := svc.NotificationsForUser("fiscal@example.com", "")
	if len(got) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(got))
	}
	priorities := map[string]bool{}
	for _, n := range got {
		priorities[n.Priority] = true
		if n.Type != models.NotificationChecklistReminder {
			t.Fatalf("unexpected type: %s", n.Type)
		}
	}
	if !priorities[models.PriorityHigh] || !priorities[models.PriorityMedium] {
		t.Fatalf("expected one high and one medium reminder: %v", priorities)
	}
}

func TestNotificationsSurviveReload(t *testing.T) {
	store := storage.NewMemoryStore()
	first := NewNotificationService(store, nil)
	id := first.CreateSystemAlert("Aviso", "Mensagem", []string{models.RoleAdmin}, "")

	second := NewNotificationService(store, nil)
	got := second.NotificationsForUser("x@x.com", models.RoleAdmin)
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("reloaded notifications mismatch: %+v", got)
	}
	if got[0].Priority != models.PriorityMedium {
		t.Fatalf("default priority must be medium, got %s", got[0].Priority)
	}
}
