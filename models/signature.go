package models

import "time"

// CertificateInfo is the mock certificate attached to every signature.
type CertificateInfo struct {
	Issuer       string    `json:"issuer"`
	ValidFrom    time.Time `json:"validFrom"`
	ValidTo      time.Time `json:"validTo"`
	SerialNumber string    `json:"serialNumber"`
}

// DigitalSignature is an append-only checklist sign-off record. IsValid never
// transitions back to true once it has been flipped to false.
type DigitalSignature struct {
	ID                 string          `json:"id"`
	ContratoID         string          `json:"contratoId"`
	FiscalEmail        string          `json:"fiscalEmail"`
	FiscalName         string          `json:"fiscalName"`
	FiscalRole         string          `json:"fiscalRole"`
	SignatureData      string          `json:"signatureData"`
	Timestamp          time.Time       `json:"timestamp"`
	CertificateInfo    CertificateInfo `json:"certificateInfo"`
	DocumentHash       string          `json:"documentHash"`
	SignatureAlgorithm string          `json:"signatureAlgorithm"`
	IsValid            bool            `json:"isValid"`
	RevocationReason   string          `json:"revocationReason,omitempty"`
}

// SignatureRequest is the input to the ledger's create operation.
type SignatureRequest struct {
	ContratoID      string            `json:"contratoId"`
	FiscalEmail     string            `json:"fiscalEmail"`
	FiscalName      string            `json:"fiscalName"`
	FiscalRole      string            `json:"fiscalRole"`
	DocumentContent string            `json:"documentContent"`
	ChecklistData   map[string]string `json:"checklistData"`
}
