package models

// Checklist phases.
const (
	ChecklistInicial  = "INICIAL"
	ChecklistExecucao = "EXECUCAO"
	ChecklistFinal    = "FINAL"
)

// Checklist item status values.
const (
	ItemPendente     = "PENDENTE"
	ItemConcluido    = "CONCLUIDO"
	ItemNaoAplicavel = "NAO_APLICAVEL"
)

// ChecklistItem is a discrete verification task tied to a contract phase.
type ChecklistItem struct {
	ID         string `json:"id"`
	ContratoID string `json:"contratoId"`
	Tipo       string `json:"tipo"`
	Item       string `json:"item"`
	Observacao string `json:"observacao,omitempty"`
	Status     string `json:"status"`
	Index      int    `json:"index"`
}

// ChecklistItemUpdate carries the fields a PUT may change.
type ChecklistItemUpdate struct {
	Item       *string `json:"item"`
	Observacao *string `json:"observacao"`
	Status     *string `json:"status"`
	Index      *int    `json:"index"`
}
