package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

// maxHistoryEntries caps the global retained log; the oldest entries are
// evicted first.
const maxHistoryEntries = 100

// ChecklistHistoryService keeps the append-only log of field-level checklist
// changes. The in-memory log is the source of truth within a session; the
// blob store holds a best-effort mirror.
type ChecklistHistoryService struct {
	mu      sync.RWMutex
	store   storage.BlobStore
	entries []models.ChecklistHistoryEntry
	now     func() time.Time
}

func NewChecklistHistoryService(store storage.BlobStore) *ChecklistHistoryService {
	s := &ChecklistHistoryService{store: store, now: time.Now}
	s.loadSnapshot()
	return s
}

func (s *ChecklistHistoryService) loadSnapshot() {
	data, err := s.store.Load(storage.KeyChecklistHistory)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to load checklist history snapshot: %v", err)
		}
		return
	}
	var entries []models.ChecklistHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Warning: discarding unreadable checklist history snapshot: %v", err)
		return
	}
	s.entries = entries
}

func (s *ChecklistHistoryService) persist() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		log.Printf("Warning: failed to encode checklist history: %v", err)
		return
	}
	if err := s.store.Save(storage.KeyChecklistHistory, data); err != nil {
		log.Printf("Warning: failed to save checklist history: %v", err)
	}
}

// AddEntry assigns an id and timestamp, appends the entry and truncates the
// log to the most recent entries in insertion order. A failed persist does
// not roll back the append.
func (s *ChecklistHistoryService) AddEntry(entry models.NewHistoryEntry) models.ChecklistHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	full := models.ChecklistHistoryEntry{
		ID:          uuid.NewString(),
		ContratoID:  entry.ContratoID,
		FiscalEmail: entry.FiscalEmail,
		FiscalRole:  entry.FiscalRole,
		Action:      entry.Action,
		Changes:     entry.Changes,
		Timestamp:   s.now(),
		Metadata:    entry.Metadata,
	}

	s.entries = append(s.entries, full)
	if len(s.entries) > maxHistoryEntries {
		s.entries = s.entries[len(s.entries)-maxHistoryEntries:]
	}

	s.persist()
	return full
}

// HistoryForContrato returns the contract's entries, most recent first.
func (s *ChecklistHistoryService) HistoryForContrato(contratoID string) []models.ChecklistHistoryEntry {
	return s.filtered(func(e models.ChecklistHistoryEntry) bool {
		return e.ContratoID == contratoID
	})
}

// HistoryForFiscal returns the fiscal's entries, most recent first.
func (s *ChecklistHistoryService) HistoryForFiscal(fiscalEmail string) []models.ChecklistHistoryEntry {
	return s.filtered(func(e models.ChecklistHistoryEntry) bool {
		return e.FiscalEmail == fiscalEmail
	})
}

// RecentHistory returns the global top-N entries, most recent first.
func (s *ChecklistHistoryService) RecentHistory(limit int) []models.ChecklistHistoryEntry {
	if limit <= 0 {
		limit = 10
	}
	all := s.filtered(func(models.ChecklistHistoryEntry) bool { return true })
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (s *ChecklistHistoryService) filtered(keep func(models.ChecklistHistoryEntry) bool) []models.ChecklistHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChecklistHistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	// Fresh sort on every call; insertion order is not trusted here.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// ClearHistory wipes the log and its persisted blob.
func (s *ChecklistHistoryService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.store.Delete(storage.KeyChecklistHistory); err != nil {
		log.Printf("Warning: failed to delete checklist history blob: %v", err)
	}
}

// Export renders the full log as JSON or CSV.
func (s *ChecklistHistoryService) Export(format string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch format {
	case "", "json":
		data, err := json.MarshalIndent(s.entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "csv":
		return s.exportCSV(), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (s *ChecklistHistoryService) exportCSV() string {
	headers := []string{"ID", "Contrato ID", "Fiscal Email", "Fiscal Role", "Action", "Timestamp", "Progress %"}
	rows := [][]string{headers}
	for _, e := range s.entries {
		rows = append(rows, []string{
			e.ID,
			e.ContratoID,
			e.FiscalEmail,
			e.FiscalRole,
			e.Action,
			e.Timestamp.UTC().Format(time.RFC3339),
			fmt.Sprintf("%d", e.Metadata.ProgressPercentage),
		})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		quoted := make([]string, len(row))
		for i, cell := range row {
			quoted[i] = `"` + cell + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	return strings.Join(lines, "\n")
}
