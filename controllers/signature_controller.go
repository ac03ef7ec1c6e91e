package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/services"
)

type SignatureController struct {
	records    *services.RecordStore
	signatures *services.DigitalSignatureService
	history    *services.ChecklistHistoryService
}

func NewSignatureController(records *services.RecordStore, signatures *services.DigitalSignatureService, history *services.ChecklistHistoryService) *SignatureController {
	return &SignatureController{records: records, signatures: signatures, history: history}
}

// SignChecklist signs the contract's current checklist state on behalf of the
// authenticated fiscal and records the act in the history log.
func (ctl *SignatureController) SignChecklist(c *gin.Context) {
	contratoID := c.Param("id")
	if ctl.records.FindContratoByID(contratoID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato não encontrado"})
		return
	}

	email := c.GetString("email")
	name := c.GetString("name")
	role := c.GetString("role")

	items := ctl.records.FindChecklistItems(contratoID, "")
	checklistData := make(map[string]string, len(items))
	for _, item := range items {
		checklistData[item.ID] = item.Status
	}

	sig := ctl.signatures.SignChecklist(contratoID, email, name, role, checklistData)
	ctl.history.AddEntry(models.NewHistoryEntry{
		ContratoID:  contratoID,
		FiscalEmail: email,
		FiscalRole:  role,
		Action:      models.HistorySigned,
		Metadata: models.HistoryMetadata{
			DiaVerificacao:     time.Now().Format("2006-01-02"),
			IdentificacaoFiscal: name,
			ProgressPercentage: ctl.records.ChecklistProgress(contratoID),
		},
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    sig,
		"message": "Checklist assinado com sucesso",
	})
}

// Verify re-validates a signature's certificate window.
func (ctl *SignatureController) Verify(c *gin.Context) {
	valid := ctl.signatures.VerifySignature(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": c.Param("id"), "valid": valid},
	})
}

type revokeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Revoke invalidates a signature with a stated reason.
func (ctl *SignatureController) Revoke(c *gin.Context) {
	var req revokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Motivo da revogação é obrigatório"})
		return
	}

	if !ctl.signatures.RevokeSignature(c.Param("id"), req.Reason) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assinatura não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Assinatura revogada",
	})
}

// ForContrato lists a contract's signatures, most recent first.
func (ctl *SignatureController) ForContrato(c *gin.Context) {
	sigs := ctl.signatures.SignaturesForContrato(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sigs,
		"count":   len(sigs),
	})
}

// ForFiscal lists a fiscal's signatures, most recent first.
func (ctl *SignatureController) ForFiscal(c *gin.Context) {
	sigs := ctl.signatures.SignaturesForFiscal(c.Param("email"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sigs,
		"count":   len(sigs),
	})
}
