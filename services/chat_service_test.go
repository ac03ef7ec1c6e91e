package services

import (
	"context"
	"errors"
	"testing"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

func TestSendMessageCreatesSessionAndStoresBothTurns(t *testing.T) {
	gen := &stubGenerator{response: "O contrato 001/2024 vence em 31/12/2024."}
	svc := NewChatService(storage.NewMemoryStore(), gen)

	session, err := svc.SendMessage(context.Background(), "", "3", "Quando vence o contrato 001/2024?")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if session.ID == "" || session.UserID != "3" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected user and assistant turns, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != models.ChatRoleUser || session.Messages[1].Role != models.ChatRoleAssistant {
		t.Fatalf("unexpected roles: %+v", session.Messages)
	}
	if session.Title != "Quando vence o contrato 001/2024?" {
		t.Fatalf("title should come from the first message: %q", session.Title)
	}
}

func TestSendMessageKeepsUserTurnWhenModelFails(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc := NewChatService(storage.NewMemoryStore(), gen)

	session, err := svc.SendMessage(context.Background(), "", "3", "Olá")
	if err == nil {
		t.Fatal("expected model error to surface")
	}
	if len(session.Messages) != 1 || session.Messages[0].Role != models.ChatRoleUser {
		t.Fatalf("user turn must be kept: %+v", session.Messages)
	}

	stored, err := svc.Session(session.ID, "3")
	if err != nil {
		t.Fatalf("Session returned error: %v", err)
	}
	if len(stored.Messages) != 1 {
		t.Fatalf("stored session mismatch: %+v", stored.Messages)
	}
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	svc := NewChatService(storage.NewMemoryStore(), gen)

	session, err := svc.SendMessage(context.Background(), "", "3", "Olá")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if _, err := svc.Session(session.ID, "4"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("foreign user must not see the session, got %v", err)
	}
	if err := svc.DeleteSession(session.ID, "4"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("foreign user must not delete the session, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), session.ID, "4", "Oi"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("foreign user must not post to the session, got %v", err)
	}

	if err := svc.DeleteSession(session.ID, "3"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if got := svc.SessionsForUser("3"); len(got) != 0 {
		t.Fatalf("expected no sessions after delete, got %d", len(got))
	}
}

func TestChatSessionsSurviveReload(t *testing.T) {
	store := storage.NewMemoryStore()
	gen := &stubGenerator{response: "ok"}

	first := NewChatService(store, gen)
	session, err := first.SendMessage(context.Background(), "", "3", "Olá")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	second := NewChatService(store, gen)
	got := second.SessionsForUser("3")
	if len(got) != 1 || got[0].ID != session.ID {
		t.Fatalf("reloaded sessions mismatch: %+v", got)
	}
	if len(got[0].Messages) != 2 {
		t.Fatalf("expected both turns after reload, got %d", len(got[0].Messages))
	}
}
