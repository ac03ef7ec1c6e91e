package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/services"
)

type HistoryController struct {
	history *services.ChecklistHistoryService
}

func NewHistoryController(history *services.ChecklistHistoryService) *HistoryController {
	return &HistoryController{history: history}
}

// ForContrato returns the contract's history, most recent first.
func (ctl *HistoryController) ForContrato(c *gin.Context) {
	entries := ctl.history.HistoryForContrato(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}

// ForFiscal returns the fiscal's history, most recent first.
func (ctl *HistoryController) ForFiscal(c *gin.Context) {
	entries := ctl.history.HistoryForFiscal(c.Param("email"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}

// Recent returns the global top-N entries.
func (ctl *HistoryController) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	entries := ctl.history.RecentHistory(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}

// Export renders the full log as JSON or CSV.
func (ctl *HistoryController) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	out, err := ctl.history.Export(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if format == "csv" {
		c.Header("Content-Disposition", `attachment; filename="checklist_history.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(out))
}

// Clear wipes the history log.
func (ctl *HistoryController) Clear(c *gin.Context) {
	ctl.history.ClearHistory()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "History cleared",
	})
}
