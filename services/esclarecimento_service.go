package services

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

// ErrEsclarecimentoNotFound is returned when no request matches the id.
var ErrEsclarecimentoNotFound = errors.New("esclarecimento not found")

// EsclarecimentoService tracks clarification requests opened by fiscais
// against checklist items and the gestor's answers.
type EsclarecimentoService struct {
	mu            sync.RWMutex
	store         storage.BlobStore
	notifications *NotificationService
	requests      []models.Esclarecimento
	now           func() time.Time
}

func NewEsclarecimentoService(store storage.BlobStore, notifications *NotificationService) *EsclarecimentoService {
	s := &EsclarecimentoService{store: store, notifications: notifications, now: time.Now}
	s.loadSnapshot()
	return s
}

func (s *EsclarecimentoService) loadSnapshot() {
	data, err := s.store.Load(storage.KeyEsclarecimentos)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to load esclarecimento snapshot: %v", err)
		}
		return
	}
	var requests []models.Esclarecimento
	if err := json.Unmarshal(data, &requests); err != nil {
		log.Printf("Warning: discarding unreadable esclarecimento snapshot: %v", err)
		return
	}
	s.requests = requests
}

func (s *EsclarecimentoService) persist() {
	data, err := json.Marshal(s.requests)
	if err != nil {
		log.Printf("Warning: failed to encode esclarecimentos: %v", err)
		return
	}
	if err := s.store.Save(storage.KeyEsclarecimentos, data); err != nil {
		log.Printf("Warning: failed to save esclarecimentos: %v", err)
	}
}

// Solicitar opens a clarification request and alerts the gestor role.
func (s *EsclarecimentoService) Solicitar(contratoID, itemID, pergunta, userEmail string) models.Esclarecimento {
	s.mu.Lock()

	request := models.Esclarecimento{
		ID:            uuid.NewString(),
		ContratoID:    contratoID,
		ItemID:        itemID,
		Pergunta:      pergunta,
		SolicitadoPor: userEmail,
		Status:        models.EsclarecimentoPendente,
		CreatedAt:     s.now(),
	}
	s.requests = append(s.requests, request)
	s.persist()
	s.mu.Unlock()

	if s.notifications != nil {
		s.notifications.CreateSystemAlert(
			"Esclarecimento Solicitado",
			"Um fiscal solicitou esclarecimento sobre um item do checklist do contrato "+contratoID+".",
			[]string{models.RoleGestorContrato},
			models.PriorityMedium,
		)
	}
	return request
}

// Responder records the gestor's answer and notifies the requester.
func (s *EsclarecimentoService) Responder(id, resposta, userEmail string) (models.Esclarecimento, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.requests {
		if s.requests[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Esclarecimento{}, ErrEsclarecimentoNotFound
	}

	now := s.now()
	s.requests[idx].Resposta = resposta
	s.requests[idx].RespondidoPor = userEmail
	s.requests[idx].Status = models.EsclarecimentoRespondido
	s.requests[idx].RespondedAt = &now
	s.persist()
	request := s.requests[idx]
	s.mu.Unlock()

	if s.notifications != nil {
		s.notifications.CreateNotification(models.NewNotification{
			Type:        models.NotificationSystemAlert,
			Title:       "Esclarecimento Respondido",
			Message:     "Sua solicitação de esclarecimento do contrato " + request.ContratoID + " foi respondida.",
			Priority:    models.PriorityMedium,
			TargetUsers: []string{request.SolicitadoPor},
			TargetRoles: []string{},
		})
	}
	return request, nil
}

// ForContrato lists the contract's requests, most recent first.
func (s *EsclarecimentoService) ForContrato(contratoID string) []models.Esclarecimento {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Esclarecimento, 0)
	for _, r := range s.requests {
		if r.ContratoID == contratoID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
