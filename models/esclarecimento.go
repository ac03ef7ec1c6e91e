package models

import "time"

// Esclarecimento status values.
const (
	EsclarecimentoPendente   = "PENDENTE"
	EsclarecimentoRespondido = "RESPONDIDO"
)

// Esclarecimento is a clarification request a fiscal opens against a
// checklist item, answered later by the gestor.
type Esclarecimento struct {
	ID           string     `json:"id"`
	ContratoID   string     `json:"contratoId"`
	ItemID       string     `json:"itemId"`
	Pergunta     string     `json:"pergunta"`
	Resposta     string     `json:"resposta,omitempty"`
	SolicitadoPor string    `json:"solicitadoPor"`
	RespondidoPor string    `json:"respondidoPor,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
}
