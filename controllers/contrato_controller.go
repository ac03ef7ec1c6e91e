package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/models"
	"github.com/moniquedpoliveira/licito3/services"
	"github.com/moniquedpoliveira/licito3/utils"
)

type ContratoController struct {
	records *services.RecordStore
}

func NewContratoController(records *services.RecordStore) *ContratoController {
	return &ContratoController{records: records}
}

// List returns every contract, optionally filtered by status.
func (ctl *ContratoController) List(c *gin.Context) {
	status := c.Query("status")

	contratos := ctl.records.FindContratos()
	if status != "" {
		filtered := make([]models.Contrato, 0, len(contratos))
		for _, contrato := range contratos {
			if contrato.Status == status {
				filtered = append(filtered, contrato)
			}
		}
		contratos = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contratos,
		"count":   len(contratos),
	})
}

// Get returns one contract by id.
func (ctl *ContratoController) Get(c *gin.Context) {
	contrato := ctl.records.FindContratoByID(c.Param("id"))
	if contrato == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contrato,
	})
}

type CreateContratoRequest struct {
	Numero           string  `json:"numero" binding:"required"`
	Objeto           string  `json:"objeto" binding:"required"`
	Valor            float64 `json:"valor" binding:"required,gt=0"`
	DataInicio       string  `json:"dataInicio" binding:"required"`
	DataFim          string  `json:"dataFim" binding:"required"`
	Status           string  `json:"status"`
	GestorID         string  `json:"gestorId"`
	OrgaoContratante string  `json:"orgaoContratante"`
	NomeContratada   string  `json:"nomeContratada"`
	CnpjContratada   string  `json:"cnpjContratada"`
	GestorContrato   string  `json:"gestorContrato"`
}

// Create registers a new contract.
func (ctl *ContratoController) Create(c *gin.Context) {
	var req CreateContratoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CnpjContratada != "" && !utils.ValidateCNPJ(req.CnpjContratada) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CNPJ inválido. Formato esperado: XX.XXX.XXX/XXXX-XX"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.ContratoAtivo
	}

	contrato := ctl.records.CreateContrato(models.Contrato{
		Numero:           req.Numero,
		Objeto:           req.Objeto,
		Valor:            req.Valor,
		DataInicio:       req.DataInicio,
		DataFim:          req.DataFim,
		Status:           status,
		GestorID:         req.GestorID,
		OrgaoContratante: req.OrgaoContratante,
		NomeContratada:   req.NomeContratada,
		CnpjContratada:   req.CnpjContratada,
		GestorContrato:   req.GestorContrato,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    contrato,
	})
}

// Update shallow-merges the provided fields.
func (ctl *ContratoController) Update(c *gin.Context) {
	var update models.ContratoUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if update.CnpjContratada != nil && *update.CnpjContratada != "" && !utils.ValidateCNPJ(*update.CnpjContratada) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CNPJ inválido. Formato esperado: XX.XXX.XXX/XXXX-XX"})
		return
	}

	contrato := ctl.records.UpdateContrato(c.Param("id"), update)
	if contrato == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contrato,
	})
}

// Stats summarizes the portfolio for the dashboard.
func (ctl *ContratoController) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctl.records.Stats(),
	})
}

// Export renders the contract list as CSV or XLSX.
func (ctl *ContratoController) Export(c *gin.Context) {
	contratos := ctl.records.FindContratos()

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="contratos.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(services.ContratosToCSV(contratos)))
	case "xlsx":
		data, err := services.ContratosToXLSX(contratos)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build spreadsheet"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="contratos.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format"})
	}
}
