package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/storage"
)

const (
	certificateIssuer   = "Autoridade Certificadora do Sistema"
	certificateValidity = 365 * 24 * time.Hour
	signatureAlgorithm  = "SHA-256"
)

// DigitalSignatureService is the append-only ledger of checklist sign-offs.
// Signatures are never deleted; revocation and expiry only flip the validity
// flag, and it never flips back.
type DigitalSignatureService struct {
	mu         sync.RWMutex
	store      storage.BlobStore
	signatures []models.DigitalSignature
	now        func() time.Time
}

func NewDigitalSignatureService(store storage.BlobStore) *DigitalSignatureService {
	s := &DigitalSignatureService{store: store, now: time.Now}
	s.loadSnapshot()
	return s
}

func (s *DigitalSignatureService) loadSnapshot() {
	data, err := s.store.Load(storage.KeyDigitalSignatures)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to load signature snapshot: %v", err)
		}
		return
	}
	var sigs []models.DigitalSignature
	if err := json.Unmarshal(data, &sigs); err != nil {
		log.Printf("Warning: discarding unreadable signature snapshot: %v", err)
		return
	}
	s.signatures = sigs
}

func (s *DigitalSignatureService) persist() {
	data, err := json.Marshal(s.signatures)
	if err != nil {
		log.Printf("Warning: failed to encode signatures: %v", err)
		return
	}
	if err := s.store.Save(storage.KeyDigitalSignatures, data); err != nil {
		log.Printf("Warning: failed to save signatures: %v", err)
	}
}

// CreateSignature hashes the document content, derives the signature hash
// from the document hash, the signer and the current time, and appends a
// record carrying a mock certificate valid for one year either side of now.
func (s *DigitalSignatureService) CreateSignature(req models.SignatureRequest) models.DigitalSignature {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	documentHash := sha256Hex([]byte(req.DocumentContent))
	signatureData := sha256Hex([]byte(fmt.Sprintf("%s:%s:%d", documentHash, req.FiscalEmail, now.UnixNano())))

	sig := models.DigitalSignature{
		ID:          uuid.NewString(),
		ContratoID:  req.ContratoID,
		FiscalEmail: req.FiscalEmail,
		FiscalName:  req.FiscalName,
		FiscalRole:  req.FiscalRole,
		SignatureData: signatureData,
		Timestamp:     now,
		CertificateInfo: models.CertificateInfo{
			Issuer:       certificateIssuer,
			ValidFrom:    now.Add(-certificateValidity),
			ValidTo:      now.Add(certificateValidity),
			SerialNumber: "CERT-" + uuid.NewString(),
		},
		DocumentHash:       documentHash,
		SignatureAlgorithm: signatureAlgorithm,
		IsValid:            true,
	}

	s.signatures = append(s.signatures, sig)
	s.persist()
	return sig
}

// VerifySignature re-checks the certificate window. Outside the window the
// validity flag is flipped false persistently; inside it the stored flag is
// returned as-is, so a revoked signature stays invalid. Unknown ids verify
// false without error.
func (s *DigitalSignatureService) VerifySignature(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	now := s.now()
	cert := s.signatures[idx].CertificateInfo
	if now.Before(cert.ValidFrom) || now.After(cert.ValidTo) {
		s.signatures[idx].IsValid = false
		s.persist()
		return false
	}

	return s.signatures[idx].IsValid
}

// RevokeSignature invalidates the signature and records the reason. It
// reports whether a matching record existed.
func (s *DigitalSignatureService) RevokeSignature(id, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	s.signatures[idx].IsValid = false
	s.signatures[idx].RevocationReason = reason
	s.persist()
	return true
}

// SignaturesForContrato returns the contract's signatures, most recent first.
func (s *DigitalSignatureService) SignaturesForContrato(contratoID string) []models.DigitalSignature {
	return s.filtered(func(sig models.DigitalSignature) bool {
		return sig.ContratoID == contratoID
	})
}

// SignaturesForFiscal returns the fiscal's signatures, most recent first.
func (s *DigitalSignatureService) SignaturesForFiscal(fiscalEmail string) []models.DigitalSignature {
	return s.filtered(func(sig models.DigitalSignature) bool {
		return sig.FiscalEmail == fiscalEmail
	})
}

func (s *DigitalSignatureService) filtered(keep func(models.DigitalSignature) bool) []models.DigitalSignature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DigitalSignature, 0, len(s.signatures))
	for _, sig := range s.signatures {
		if keep(sig) {
			out = append(out, sig)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (s *DigitalSignatureService) indexOf(id string) int {
	for i := range s.signatures {
		if s.signatures[i].ID == id {
			return i
		}
	}
	return -1
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SignChecklist builds the canonical document representation for a checklist
// submission and records its signature.
func (s *DigitalSignatureService) SignChecklist(contratoID, fiscalEmail, fiscalName, fiscalRole string, checklistData map[string]string) models.DigitalSignature {
	document, err := json.Marshal(map[string]interface{}{
		"contratoId":    contratoID,
		"fiscalEmail":   fiscalEmail,
		"fiscalRole":    fiscalRole,
		"checklistData": checklistData,
		"timestamp":     s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Warning: failed to encode checklist document: %v", err)
	}

	return s.CreateSignature(models.SignatureRequest{
		ContratoID:      contratoID,
		FiscalEmail:     fiscalEmail,
		FiscalName:      fiscalName,
		FiscalRole:      fiscalRole,
		DocumentContent: string(document),
		ChecklistData:   checklistData,
	})
}
