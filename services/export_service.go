package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/moniquedpoliveira/licito3/models"
)

var contratoExportHeaders = []string{
	"Número do Contrato",
	"Objeto",
	"Valor Total",
	"Órgão Contratante",
	"Nome da Contratada",
	"Gestor do Contrato",
	"Status",
	"Data de Criação",
}

func contratoExportRow(c models.Contrato) []string {
	return []string{
		c.Numero,
		c.Objeto,
		fmt.Sprintf("%.2f", c.Valor),
		c.OrgaoContratante,
		c.NomeContratada,
		c.GestorContrato,
		c.Status,
		c.CreatedAt.Format("02/01/2006"),
	}
}

// ContratosToCSV renders the contract list as double-quoted comma-separated
// lines with a header row.
func ContratosToCSV(contratos []models.Contrato) string {
	rows := [][]string{contratoExportHeaders}
	for _, c := range contratos {
		rows = append(rows, contratoExportRow(c))
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		quoted := make([]string, len(row))
		for i, cell := range row {
			quoted[i] = `"` + cell + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	return strings.Join(lines, "\n")
}

// ContratosToXLSX renders the same columns as a spreadsheet.
func ContratosToXLSX(contratos []models.Contrato) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Contratos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	write := func(rowIdx int, values []string) error {
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(1, contratoExportHeaders); err != nil {
		return nil, err
	}
	for i, c := range contratos {
		if err := write(i+2, contratoExportRow(c)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
