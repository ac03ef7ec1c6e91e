package models

import "time"

// Contrato status values. Plain enumerations, set directly by callers.
const (
	ContratoAtivo     = "ATIVO"
	ContratoSuspenso  = "SUSPENSO"
	ContratoEncerrado = "ENCERRADO"
)

// Contrato is an administrative contract record held by the record store.
type Contrato struct {
	ID         string    `json:"id"`
	Numero     string    `json:"numero"`
	Objeto     string    `json:"objeto"`
	Valor      float64   `json:"valor"`
	DataInicio string    `json:"dataInicio"` // AAAA-MM-DD
	DataFim    string    `json:"dataFim"`    // AAAA-MM-DD
	Status     string    `json:"status"`
	GestorID   string    `json:"gestorId"`

	// Optional procurement detail used by exports and the reporting schema.
	OrgaoContratante string `json:"orgaoContratante,omitempty"`
	NomeContratada   string `json:"nomeContratada,omitempty"`
	CnpjContratada   string `json:"cnpjContratada,omitempty"`
	GestorContrato   string `json:"gestorContrato,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContratoUpdate carries the fields a PUT may change. Nil fields are left
// untouched by the shallow merge.
type ContratoUpdate struct {
	Numero           *string  `json:"numero"`
	Objeto           *string  `json:"objeto"`
	Valor            *float64 `json:"valor"`
	DataInicio       *string  `json:"dataInicio"`
	DataFim          *string  `json:"dataFim"`
	Status           *string  `json:"status"`
	GestorID         *string  `json:"gestorId"`
	OrgaoContratante *string  `json:"orgaoContratante"`
	NomeContratada   *string  `json:"nomeContratada"`
	CnpjContratada   *string  `json:"cnpjContratada"`
	GestorContrato   *string  `json:"gestorContrato"`
}

// ContratoStats is the dashboard summary block.
type ContratoStats struct {
	Total            int     `json:"total"`
	Ativos           int     `json:"ativos"`
	VencendoEm30Dias int     `json:"vencendoEm30Dias"`
	ValorTotal       float64 `json:"valorTotal"`
}
