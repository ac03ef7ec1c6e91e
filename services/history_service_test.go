package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

func newHistoryService(t *testing.T) *ChecklistHistoryService {
	t.Helper()
	return NewChecklistHistoryService(storage.NewMemoryStore())
}

func TestAddEntryCapsRetentionAtMostRecentHundred(t *testing.T) {
	svc := newHistoryService(t)

	for i := 0; i < 130; i++ {
		svc.AddEntry(models.NewHistoryEntry{
			ContratoID:  fmt.Sprintf("c%d", i),
			FiscalEmail: "fiscal@example.com",
			FiscalRole:  models.RoleFiscal,
			Action:      models.HistoryUpdated,
			Metadata:    models.HistoryMetadata{ProgressPercentage: i},
		})
	}

	all := svc.RecentHistory(1000)
	if len(all) != 100 {
		t.Fatalf("expected 100 retained entries, got %d", len(all))
	}

	// Entries 0..29 were evicted first; the oldest survivor is entry 30.
	for _, e := range all {
		if e.Metadata.ProgressPercentage < 30 {
			t.Fatalf("entry %d should have been evicted", e.Metadata.ProgressPercentage)
		}
	}
}

func TestHistoryFiltersSortDescendingRegardlessOfInsertionOrder(t *testing.T) {
	svc := newHistoryService(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order.
	offsets := []time.Duration{2 * time.Hour, 0, 3 * time.Hour, time.Hour}
	for i, off := range offsets {
		ts := base.Add(off)
		svc.now = func() time.Time { return ts }
		svc.AddEntry(models.NewHistoryEntry{
			ContratoID:  "1",
			FiscalEmail: "fiscal@example.com",
			FiscalRole:  models.RoleFiscal,
			Action:      models.HistoryUpdated,
			Metadata:    models.HistoryMetadata{ProgressPercentage: i},
		})
	}

	got := svc.HistoryForContrato("1")
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("entries not sorted descending at index %d", i)
		}
	}

	byFiscal := svc.HistoryForFiscal("fiscal@example.com")
	if len(byFiscal) != 4 {
		t.Fatalf("expected 4 entries for fiscal, got %d", len(byFiscal))
	}
	if len(svc.HistoryForFiscal("outro@example.com")) != 0 {
		t.Fatal("expected no entries for unknown fiscal")
	}
}

func TestRecentHistoryLimitsGlobally(t *testing.T) {
	svc := newHistoryService(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return ts }
		svc.AddEntry(models.NewHistoryEntry{
			ContratoID: fmt.Sprintf("c%d", i),
			Action:     models.HistoryCreated,
			Metadata:   models.HistoryMetadata{ProgressPercentage: i},
		})
	}

	top := svc.RecentHistory(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].ContratoID != "c4" || top[1].ContratoID != "c3" {
		t.Fatalf("unexpected top entries: %s, %s", top[0].ContratoID, top[1].ContratoID)
	}
}

func TestHistorySurvivesReloadFromStore(t *testing.T) {
	store := storage.NewMemoryStore()

	first := NewChecklistHistoryService(store)
	first.AddEntry(models.NewHistoryEntry{
		ContratoID:  "1",
		FiscalEmail: "fiscal@example.com",
		Action:      models.HistoryCompleted,
		Changes:     []models.FieldChange{{Field: "status", OldValue: "PENDENTE", NewValue: "CONCLUIDO"}},
		Metadata:    models.HistoryMetadata{ProgressPercentage: 100},
	})

	second := NewChecklistHistoryService(store)
	got := second.HistoryForContrato("1")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", len(got))
	}
	if got[0].Changes[0].NewValue != "CONCLUIDO" {
		t.Fatalf("unexpected change payload: %+v", got[0].Changes)
	}
}

func TestHistoryLoadToleratesCorruptSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Save(storage.KeyChecklistHistory, []byte("{not json")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	svc := NewChecklistHistoryService(store)
	if got := svc.RecentHistory(10); len(got) != 0 {
		t.Fatalf("expected empty history from corrupt snapshot, got %d entries", len(got))
	}
}

func TestExportCSVQuotesFieldsInFixedOrder(t *testing.T) {
	svc := newHistoryService(t)
	ts := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return ts }

	entry := svc.AddEntry(models.NewHistoryEntry{
		ContratoID:  "1",
		FiscalEmail: "fiscal@example.com",
		FiscalRole:  models.RoleFiscal,
		Action:      models.HistoryUpdated,
		Metadata:    models.HistoryMetadata{ProgressPercentage: 40},
	})

	csv, err := svc.Export("csv")
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	lines := strings.Split(csv, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one record, got %d lines", len(lines))
	}
	if lines[0] != `"ID","Contrato ID","Fiscal Email","Fiscal Role","Action","Timestamp","Progress %"` {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	want := fmt.Sprintf(`"%s","1","fiscal@example.com","FISCAL","updated","2024-06-01T10:30:00Z","40"`, entry.ID)
	if lines[1] != want {
		t.Fatalf("unexpected record line:\n got %s\nwant %s", lines[1], want)
	}
}

func TestExportJSONRoundTrips(t *testing.T) {
	svc := newHistoryService(t)
	svc.AddEntry(models.NewHistoryEntry{ContratoID: "1", Action: models.HistoryCreated})

	out, err := svc.Export("json")
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	var entries []models.ChecklistHistoryEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].ContratoID != "1" {
		t.Fatalf("unexpected export payload: %+v", entries)
	}

	if _, err := svc.Export("xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestClearHistoryWipesMemoryAndBlob(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewChecklistHistoryService(store)
	svc.AddEntry(models.NewHistoryEntry{ContratoID: "1", Action: models.HistoryCreated})

	svc.ClearHistory()
	if got := svc.RecentHistory(10); len(got) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(got))
	}
	if _, err := store.Load(storage.KeyChecklistHistory); err == nil {
		t.Fatal("expected blob to be deleted")
	}
}
