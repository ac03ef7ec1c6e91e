package storage

import (
	"errors"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if _, err := store.Load("notifications"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	payload := []byte(`[{"id":"n1"}]`)
	if err := store.Save("notifications", payload); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := store.Load("notifications")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("loaded blob mismatch: %s", got)
	}

	if err := store.Delete("notifications"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Load("notifications"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete("notifications"); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()

	payload := []byte(`{"a":1}`)
	if err := store.Save("digital_signatures", payload); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// Mutating the caller's slice must not change the stored blob.
	payload[0] = 'X'

	got, err := store.Load("digital_signatures")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("stored blob was aliased to caller slice: %s", got)
	}
}
