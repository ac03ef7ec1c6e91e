package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/services"
)

type ChecklistController struct {
	records         *services.RecordStore
	history         *services.ChecklistHistoryService
	notifications   *services.NotificationService
	esclarecimentos *services.EsclarecimentoService
}

func NewChecklistController(
	records *services.RecordStore,
	history *services.ChecklistHistoryService,
	notifications *services.NotificationService,
	esclarecimentos *services.EsclarecimentoService,
) *ChecklistController {
	return &ChecklistController{
		records:         records,
		history:         history,
		notifications:   notifications,
		esclarecimentos: esclarecimentos,
	}
}

// List returns the contract's checklist, optionally filtered by phase.
func (ctl *ChecklistController) List(c *gin.Context) {
	items := ctl.records.FindChecklistItems(c.Param("id"), c.Query("tipo"))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     items,
		"count":    len(items),
		"progress": ctl.records.ChecklistProgress(c.Param("id")),
	})
}

// UpdateItem merges the fields, records the field-level history entry and
// fires a reminder while the checklist is incomplete. History and reminders
// are independent, non-atomic follow-ups of the update.
func (ctl *ChecklistController) UpdateItem(c *gin.Context) {
	var update models.ChecklistItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contratoID := c.Param("id")
	itemID := c.Param("itemId")

	before := ctl.records.FindChecklistItemByID(itemID)
	if before == nil || before.ContratoID != contratoID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
		return
	}

	after := ctl.records.UpdateChecklistItem(itemID, update)
	if after == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
		return
	}

	email, _ := c.Get("email")
	role, _ := c.Get("role")
	progress := ctl.records.ChecklistProgress(contratoID)

	action := models.HistoryUpdated
	if after.Status == models.ItemConcluido && before.Status != models.ItemConcluido {
		action = models.HistoryCompleted
	}

	ctl.history.AddEntry(models.NewHistoryEntry{
		ContratoID:  contratoID,
		FiscalEmail: email.(string),
		FiscalRole:  role.(string),
		Action:      action,
		Changes:     itemChanges(*before, *after),
		Metadata: models.HistoryMetadata{
			DiaVerificacao:     time.Now().Format("2006-01-02"),
			ProgressPercentage: progress,
		},
	})

	if progress < 100 {
		numero := contratoID
		if contrato := ctl.records.FindContratoByID(contratoID); contrato != nil {
			numero = contrato.Numero
		}
		ctl.notifications.CreateChecklistReminder(contratoID, numero, email.(string), progress)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     after,
		"progress": progress,
	})
}

func itemChanges(before, after models.ChecklistItem) []models.FieldChange {
	changes := []models.FieldChange{}
	if before.Status != after.Status {
		changes = append(changes, models.FieldChange{Field: "status", OldValue: before.Status, NewValue: after.Status})
	}
	if before.Observacao != after.Observacao {
		changes = append(changes, models.FieldChange{Field: "observacao", OldValue: before.Observacao, NewValue: after.Observacao})
	}
	if before.Item != after.Item {
		changes = append(changes, models.FieldChange{Field: "item", OldValue: before.Item, NewValue: after.Item})
	}
	if before.Index != after.Index {
		changes = append(changes, models.FieldChange{
			Field:    "index",
			OldValue: fmt.Sprintf("%d", before.Index),
			NewValue: fmt.Sprintf("%d", after.Index),
		})
	}
	return changes
}

type SolicitarEsclarecimentoRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Pergunta string `json:"pergunta" binding:"required"`
}

// SolicitarEsclarecimento opens a clarification request for a checklist item.
func (ctl *ChecklistController) SolicitarEsclarecimento(c *gin.Context) {
	var req SolicitarEsclarecimentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, _ := c.Get("email")
	request := ctl.esclarecimentos.Solicitar(c.Param("id"), req.ItemID, req.Pergunta, email.(string))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    request,
	})
}

type ResponderEsclarecimentoRequest struct {
	Resposta string `json:"resposta" binding:"required"`
}

// ResponderEsclarecimento records the gestor's answer.
func (ctl *ChecklistController) ResponderEsclarecimento(c *gin.Context) {
	var req ResponderEsclarecimentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, _ := c.Get("email")
	request, err := ctl.esclarecimentos.Responder(c.Param("esclarecimentoId"), req.Resposta, email.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Esclarecimento not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// ListEsclarecimentos returns the contract's clarification requests.
func (ctl *ChecklistController) ListEsclarecimentos(c *gin.Context) {
	requests := ctl.esclarecimentos.ForContrato(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
		"count":   len(requests),
	})
}
