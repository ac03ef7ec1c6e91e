package services

import (
	"context"
	"errors"
	"testing"
)

type stubGenerator struct {
	response string
	err      error
	system   string
	prompt   string
}

func (g *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	g.system = system
	g.prompt = prompt
	return g.response, g.err
}

func TestValidateSelectAcceptsSelectOnly(t *testing.T) {
	valid := []string{
		`SELECT * FROM Contratos`,
		`select "numeroContrato" from Contratos where LOWER("objeto") LIKE LOWER('%limpeza%');`,
		`WITH recent AS (SELECT * FROM Contratos) SELECT COUNT(*) FROM recent`,
	}
	for _, q := range valid {
		if err := ValidateSelect(q); err != nil {
			t.Fatalf("expected %q to pass, got %v", q, err)
		}
	}

	invalid := []string{
		``,
		`DELETE FROM Contratos`,
		`DROP TABLE Contratos`,
		`SELECT 1; DELETE FROM Contratos`,
		`UPDATE Contratos SET "objeto" = 'x'`,
		`INSERT INTO Contratos VALUES (1)`,
		`EXPLAIN SELECT * FROM Contratos`,
	}
	for _, q := range invalid {
		if err := ValidateSelect(q); !errors.Is(err, ErrQueryRejected) {
			t.Fatalf("expected %q to be rejected, got %v", q, err)
		}
	}
}

func TestGenerateSQLStripsFencesAndGuards(t *testing.T) {
	gen := &stubGenerator{response: "```sql\nSELECT COUNT(*) AS \"total\" FROM Contratos\n```"}
	svc := NewQueryService(gen, nil)

	query, err := svc.GenerateSQL(context.Background(), "quantos contratos existem?")
	if err != nil {
		t.Fatalf("GenerateSQL returned error: %v", err)
	}
	if query != `SELECT COUNT(*) AS "total" FROM Contratos` {
		t.Fatalf("unexpected query: %q", query)
	}
	if gen.prompt == "" || gen.system == "" {
		t.Fatal("generator must receive system and user prompts")
	}
}

func TestGenerateSQLRejectsNonSelect(t *testing.T) {
	gen := &stubGenerator{response: `DELETE FROM Contratos WHERE "id" = '1'`}
	svc := NewQueryService(gen, nil)

	if _, err := svc.GenerateSQL(context.Background(), "apague tudo"); !errors.Is(err, ErrQueryRejected) {
		t.Fatalf("expected ErrQueryRejected, got %v", err)
	}
}

func TestGenerateSQLWithoutGenerator(t *testing.T) {
	svc := NewQueryService(nil, nil)
	if _, err := svc.GenerateSQL(context.Background(), "qualquer coisa"); err == nil {
		t.Fatal("expected error when generator is not configured")
	}
}

func TestExecuteWithoutDatabase(t *testing.T) {
	svc := NewQueryService(&stubGenerator{}, nil)
	if svc.CanExecute() {
		t.Fatal("CanExecute must be false without a reporting database")
	}
	if _, err := svc.Execute(context.Background(), `SELECT 1`); err == nil {
		t.Fatal("expected error executing without a database")
	}
	// The guard runs before the database check.
	if _, err := svc.Execute(context.Background(), `DROP TABLE Contratos`); !errors.Is(err, ErrQueryRejected) {
		t.Fatalf("expected ErrQueryRejected, got %v", err)
	}
}
