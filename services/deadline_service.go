package services

import (
	"log"
	"sync"
	"time"

	"github.com/moniquedpoliveira/licito3/models"
)

// DeadlineService runs the periodic sweep: deadline warnings for contracts
// ending within 30 days and physical removal of expired notifications.
type DeadlineService struct {
	mu            sync.Mutex
	records       *RecordStore
	notifications *NotificationService
	// warned de-duplicates warnings per contrato per day.
	warned map[string]string
	now    func() time.Time
}

func NewDeadlineService(records *RecordStore, notifications *NotificationService) *DeadlineService {
	return &DeadlineService{
		records:       records,
		notifications: notifications,
		warned:        make(map[string]string),
		now:           time.Now,
	}
}

// CheckDeadlines scans active contracts and emits one warning per contract
// per day while the end date is 30 days or less away. Returns the number of
// warnings created.
func (s *DeadlineService) CheckDeadlines() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := now.Format("2006-01-02")
	created := 0

	for _, contrato := range s.records.FindContratos() {
		if contrato.Status != models.ContratoAtivo {
			continue
		}
		end, err := time.Parse("2006-01-02", contrato.DataFim)
		if err != nil {
			log.Printf("Warning: contrato %s has unparseable dataFim %q", contrato.ID, contrato.DataFim)
			continue
		}

		days := int(end.Sub(now).Hours() / 24)
		if days < 0 || days > 30 {
			continue
		}
		if s.warned[contrato.ID] == today {
			continue
		}

		gestorEmails := []string{}
		if gestor := s.records.FindUserByID(contrato.GestorID); gestor != nil {
			gestorEmails = append(gestorEmails, gestor.Email)
		}
		s.notifications.CreateDeadlineWarning(contrato.ID, contrato.Numero, days, gestorEmails)
		s.warned[contrato.ID] = today
		created++
	}
	return created
}

// Sweep runs one deadline pass plus expired-notification cleanup.
func (s *DeadlineService) Sweep() (warnings, removed int) {
	warnings = s.CheckDeadlines()
	removed = s.notifications.CleanupExpiredNotifications()
	return warnings, removed
}

// Run sweeps on the given interval until stop is closed.
func (s *DeadlineService) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			warnings, removed := s.Sweep()
			if warnings > 0 || removed > 0 {
				log.Printf("Deadline sweep: %d warnings created, %d expired notifications removed", warnings, removed)
			}
		case <-stop:
			return
		}
	}
}
