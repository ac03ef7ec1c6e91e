package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// TextGenerator is the opaque language-model dependency behind the natural
// language helpers.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ErrQueryRejected is returned when generated SQL fails the SELECT-only guard.
var ErrQueryRejected = errors.New("generated query rejected: only single SELECT statements are allowed")

// querySystemPrompt pins the generator to the reporting schema. The dialect
// is PostgreSQL; column names are camelCase and must stay double-quoted.
const querySystemPrompt = `You are a highly specialized SQL query engine for PostgreSQL. Your sole function is to translate a natural language request into a syntactically perfect SELECT query for the "Contratos" table.

Table schema (single source of truth):
"Contratos" (
  "id" TEXT PRIMARY KEY,
  "numeroContrato" TEXT,
  "processoAdministrativo" TEXT,
  "modalidadeLicitacao" TEXT,
  "objeto" TEXT,
  "orgaoContratante" TEXT,
  "nomeContratada" TEXT,
  "cnpjContratada" TEXT,
  "valorTotal" NUMERIC,
  "dataAssinatura" DATE,
  "vigenciaInicio" DATE,
  "vigenciaTermino" DATE,
  "gestorContrato" TEXT,
  "emailGestor" TEXT,
  "fiscalAdministrativo" TEXT,
  "fiscalTecnico" TEXT,
  "createdAt" TIMESTAMP,
  "updatedAt" TIMESTAMP
);

Rules:
- ALWAYS double-quote column names; NEVER quote the table name Contratos.
- ONLY generate SELECT queries. Never DML or DDL.
- Textual filters use LOWER("column") LIKE LOWER('%term%').
- Group dates with DATE_TRUNC and alias the result.
- Aggregations put the grouping fields in both SELECT and GROUP BY.
- "top N" requests combine ORDER BY with LIMIT.
- Use NULLIF to avoid division by zero.
- Respond with the raw SQL only, no explanations and no code fences.`

// QueryService turns natural-language questions into guarded SELECT queries
// and, when a reporting database is configured, executes them.
type QueryService struct {
	generator TextGenerator
	db        *gorm.DB
}

// NewQueryService accepts a nil db; generation then works without execution.
func NewQueryService(generator TextGenerator, db *gorm.DB) *QueryService {
	return &QueryService{generator: generator, db: db}
}

// GenerateSQL asks the model for a query and rejects anything that is not a
// single SELECT statement.
func (s *QueryService) GenerateSQL(ctx context.Context, question string) (string, error) {
	if s.generator == nil {
		return "", errors.New("query generator not configured")
	}

	raw, err := s.generator.Generate(ctx, querySystemPrompt,
		"Generate the query necessary to retrieve the data the user wants: "+question)
	if err != nil {
		return "", fmt.Errorf("failed to generate query: %w", err)
	}

	query := stripCodeFences(raw)
	if err := ValidateSelect(query); err != nil {
		return "", err
	}
	return query, nil
}

// CanExecute reports whether a reporting database is configured.
func (s *QueryService) CanExecute() bool { return s.db != nil }

// Execute runs a validated SELECT and returns the rows as column/value maps.
func (s *QueryService) Execute(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if err := ValidateSelect(query); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, errors.New("reporting database not configured")
	}

	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		record := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

var forbiddenSQL = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate|grant|revoke|copy)\b`)

// ValidateSelect accepts a single SELECT (or WITH ... SELECT) statement and
// nothing else.
func ValidateSelect(query string) error {
	trimmed := strings.TrimSpace(query)
	trimmed = strings.TrimSuffix(trimmed, ";")
	if trimmed == "" {
		return ErrQueryRejected
	}
	if strings.Contains(trimmed, ";") {
		return ErrQueryRejected
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return ErrQueryRejected
	}
	if forbiddenSQL.MatchString(trimmed) {
		return ErrQueryRejected
	}
	return nil
}

func stripCodeFences(raw string) string {
	out := strings.TrimSpace(raw)
	if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```sql")
		out = strings.TrimPrefix(out, "```")
		out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	}
	return strings.TrimSpace(out)
}
