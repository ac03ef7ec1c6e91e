package services

import (
	"context"
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

const chatSystemPrompt = `Você é o assistente do painel de gestão de contratos administrativos. Responda de forma objetiva a perguntas sobre contratos, fiscalização, checklists e prazos. Quando não souber a resposta, diga que não sabe.`

// ErrChatNotFound is returned for a missing or foreign chat session.
var ErrChatNotFound = errors.New("chat session not found")

// ChatService keeps per-user assistant conversations, persisted to the blob
// store like the other bookkeeping collections.
type ChatService struct {
	mu        sync.RWMutex
	store     storage.BlobStore
	generator TextGenerator
	sessions  []models.ChatSession
	now       func() time.Time
}

func NewChatService(store storage.BlobStore, generator TextGenerator) *ChatService {
	s := &ChatService{store: store, generator: generator, now: time.Now}
	s.loadSnapshot()
	return s
}

func (s *ChatService) loadSnapshot() {
	data, err := s.store.Load(storage.KeyChatSessions)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to load chat snapshot: %v", err)
		}
		return
	}
	var sessions []models.ChatSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Printf("Warning: discarding unreadable chat snapshot: %v", err)
		return
	}
	s.sessions = sessions
}

func (s *ChatService) persist() {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		log.Printf("Warning: failed to encode chat sessions: %v", err)
		return
	}
	if err := s.store.Save(storage.KeyChatSessions, data); err != nil {
		log.Printf("Warning: failed to save chat sessions: %v", err)
	}
}

// SessionsForUser lists the user's sessions, most recently updated first.
func (s *ChatService) SessionsForUser(userID string) []models.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatSession, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Session fetches one session scoped to its owner.
func (s *ChatService) Session(id, userID string) (models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.ID == id && session.UserID == userID {
			return session, nil
		}
	}
	return models.ChatSession{}, ErrChatNotFound
}

// DeleteSession removes the session scoped to its owner.
func (s *ChatService) DeleteSession(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, session := range s.sessions {
		if session.ID == id && session.UserID == userID {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			s.persist()
			return nil
		}
	}
	return ErrChatNotFound
}

// SendMessage appends the user message to the session (creating one when the
// id is empty), obtains the assistant reply and stores both. The model error
// is surfaced; the user turn is kept either way.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, userID, content string) (models.ChatSession, error) {
	s.mu.Lock()

	now := s.now()
	idx := -1
	if sessionID == "" {
		title := content
		if len(title) > 60 {
			title = title[:60]
		}
		s.sessions = append(s.sessions, models.ChatSession{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		})
		idx = len(s.sessions) - 1
	} else {
		for i := range s.sessions {
			if s.sessions[i].ID == sessionID && s.sessions[i].UserID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			s.mu.Unlock()
			return models.ChatSession{}, ErrChatNotFound
		}
	}

	s.sessions[idx].Messages = append(s.sessions[idx].Messages, models.ChatMessage{
		Role:      models.ChatRoleUser,
		Content:   content,
		CreatedAt: now,
	})
	s.sessions[idx].UpdatedAt = now
	s.persist()
	session := s.sessions[idx]
	s.mu.Unlock()

	if s.generator == nil {
		return session, errors.New("chat assistant not configured")
	}

	reply, err := s.generator.Generate(ctx, chatSystemPrompt, transcript(session))
	if err != nil {
		return session, fmt.Errorf("assistant reply failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == session.ID {
			s.sessions[i].Messages = append(s.sessions[i].Messages, models.ChatMessage{
				Role:      models.ChatRoleAssistant,
				Content:   reply,
				CreatedAt: s.now(),
			})
			s.sessions[i].UpdatedAt = s.now()
			s.persist()
			return s.sessions[i], nil
		}
	}
	return session, ErrChatNotFound
}

func transcript(session models.ChatSession) string {
	var b []byte
	for _, m := range session.Messages {
		b = append(b, []byte(m.Role+": "+m.Content+"\n")...)
	}
	return string(b)
}
