// Package storage provides the blob persistence port used by the bookkeeping
// services. Persistence is a best-effort mirror of the in-memory state: the
// services log write failures and keep going, and a missing or unreadable
// blob loads as an empty collection.
package storage

import "errors"

// Blob keys, one per persisted collection.
const (
	KeyChecklistHistory  = "checklist_history"
	KeyDigitalSignatures = "digital_signatures"
	KeyNotifications     = "notifications"
	KeyChatSessions      = "chat_sessions"
	KeyEsclarecimentos   = "esclarecimentos"
)

// ErrNotFound is returned by Load when no blob exists under the key.
var ErrNotFound = errors.New("storage: key not found")

// BlobStore persists one JSON snapshot per collection key.
type BlobStore interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
	Delete(key string) error
}
