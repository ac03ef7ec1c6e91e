package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moniquedpoliveira/licito3/services"
)

type QueryController struct {
	queries *services.QueryService
}

func NewQueryController(queries *services.QueryService) *QueryController {
	return &QueryController{queries: queries}
}

type queryRequest struct {
	Question string `json:"question" binding:"required"`
	Execute  bool   `json:"execute"`
}

// Generate turns a natural-language question into a SQL query and, when
// requested and a reporting database is configured, runs it.
func (ctl *QueryController) Generate(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pergunta é obrigatória"})
		return
	}

	query, err := ctl.queries.GenerateSQL(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, services.ErrQueryRejected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao gerar consulta"})
		return
	}

	data := gin.H{"query": query}

	if req.Execute {
		if !ctl.queries.CanExecute() {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    data,
				"message": "Banco de relatórios não configurado; consulta gerada mas não executada",
			})
			return
		}

		rows, err := ctl.queries.Execute(c.Request.Context(), query)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "query": query})
			return
		}
		data["rows"] = rows
		data["count"] = len(rows)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
