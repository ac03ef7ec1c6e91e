package models

import "time"

// History actions.
const (
	HistoryCreated   = "created"
	HistoryUpdated   = "updated"
	HistoryCompleted = "completed"
	HistorySigned    = "signed"
)

// FieldChange records one field-level change inside a history entry.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// HistoryMetadata carries the progress snapshot taken with the entry.
type HistoryMetadata struct {
	DiaVerificacao     string `json:"diaVerificacao,omitempty"`
	IdentificacaoFiscal string `json:"identificacaoFiscal,omitempty"`
	ProgressPercentage int    `json:"progressPercentage"`
}

// ChecklistHistoryEntry is immutable once created; the tracker owns it.
type ChecklistHistoryEntry struct {
	ID          string          `json:"id"`
	ContratoID  string          `json:"contratoId"`
	FiscalEmail string          `json:"fiscalEmail"`
	FiscalRole  string          `json:"fiscalRole"`
	Action      string          `json:"action"`
	Changes     []FieldChange   `json:"changes"`
	Timestamp   time.Time       `json:"timestamp"`
	Metadata    HistoryMetadata `json:"metadata"`
}

// NewHistoryEntry is the caller-supplied part of an entry; the tracker
// assigns the id and timestamp.
type NewHistoryEntry struct {
	ContratoID  string
	FiscalEmail string
	FiscalRole  string
	Action      string
	Changes     []FieldChange
	Metadata    HistoryMetadata
}
