package services

import (
	"testing"
	"time"

	"github.com/moniquedpoliveira/licito3/models"
)

func TestCreateContratoAssignsSequentialIDAndTimestamps(t *testing.T) {
	store := NewRecordStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	created := store.CreateContrato(models.Contrato{Numero: "010/2024", Valor: 1000})
	if created.ID != "1" {
		t.Fatalf("expected id 1 for first contract, got %s", created.ID)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("expected createdAt = updatedAt = now, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	found := store.FindContratoByID("1")
	if found == nil || found.Numero != "010/2024" || found.Valor != 1000 {
		t.Fatalf("FindContratoByID returned %+v", found)
	}

	second := store.CreateContrato(models.Contrato{Numero: "011/2024"})
	if second.ID != "2" {
		t.Fatalf("expected id 2 for second contract, got %s", second.ID)
	}
}

func TestUpdateContratoShallowMergesAndBumpsUpdatedAt(t *testing.T) {
	store := NewRecordStore()
	created := store.CreateContrato(models.Contrato{Numero: "010/2024", Objeto: "Serviços", Valor: 1000})

	later := created.UpdatedAt.Add(time.Hour)
	store.now = func() time.Time { return later }

	status := models.ContratoSuspenso
	updated := store.UpdateContrato(created.ID, models.ContratoUpdate{Status: &status})
	if updated == nil {
		t.Fatal("expected update to find the contract")
	}
	if updated.Status != models.ContratoSuspenso {
		t.Fatalf("status not merged: %s", updated.Status)
	}
	if updated.Numero != "010/2024" || updated.Objeto != "Serviços" || updated.Valor != 1000 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("timestamps wrong: %+v", updated)
	}

	if store.UpdateContrato("missing", models.ContratoUpdate{Status: &status}) != nil {
		t.Fatal("expected nil for unknown contract id")
	}
}

func TestSeededStoreFindsUsersAndChecklist(t *testing.T) {
	store := NewSeededRecordStore()

	admin := store.FindUserByEmail("admin@example.com")
	if admin == nil || admin.Role != models.RoleAdmin {
		t.Fatalf("seeded admin missing: %+v", admin)
	}
	if store.FindUserByEmail("nobody@example.com") != nil {
		t.Fatal("expected nil for unknown email")
	}
	if got := store.FindUserByID("3"); got == nil || got.Role != models.RoleFiscal {
		t.Fatalf("seeded fiscal missing: %+v", got)
	}

	all := store.FindChecklistItems("1", "")
	if len(all) != 7 {
		t.Fatalf("expected 7 seeded items for contrato 1, got %d", len(all))
	}
	inicial := store.FindChecklistItems("1", models.ChecklistInicial)
	if len(inicial) != 3 {
		t.Fatalf("expected 3 INICIAL items, got %d", len(inicial))
	}
	for i := 1; i < len(inicial); i++ {
		if inicial[i].Index < inicial[i-1].Index {
			t.Fatalf("items not sorted by index at %d", i)
		}
	}
	if len(store.FindChecklistItems("99", "")) != 0 {
		t.Fatal("expected no items for unknown contract")
	}
}

func TestUpdateChecklistItemMergesWithoutTouchingOthers(t *testing.T) {
	store := NewSeededRecordStore()

	status := models.ItemConcluido
	obs := "verificado em campo"
	updated := store.UpdateChecklistItem("3", models.ChecklistItemUpdate{Status: &status, Observacao: &obs})
	if updated == nil {
		t.Fatal("expected update to find item 3")
	}
	if updated.Status != models.ItemConcluido || updated.Observacao != obs {
		t.Fatalf("merge failed: %+v", updated)
	}
	if updated.Item != "Equipe técnica designada" || updated.Index != 3 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if store.UpdateChecklistItem("missing", models.ChecklistItemUpdate{Status: &status}) != nil {
		t.Fatal("expected nil for unknown item id")
	}
}

func TestChecklistProgress(t *testing.T) {
	store := NewSeededRecordStore()

	// Seed: items 1,2,4 CONCLUIDO + 6,7 NAO_APLICAVEL out of 7.
	if got := store.ChecklistProgress("1"); got != 5*100/7 {
		t.Fatalf("unexpected progress: %d", got)
	}
	if got := store.ChecklistProgress("99"); got != 0 {
		t.Fatalf("expected 0 progress for unknown contract, got %d", got)
	}
}

func TestStatsCountsActiveAndExpiring(t *testing.T) {
	store := NewRecordStore()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.CreateContrato(models.Contrato{Numero: "1", Valor: 100, DataFim: "2024-12-31", Status: models.ContratoAtivo})
	store.CreateContrato(models.Contrato{Numero: "2", Valor: 200, DataFim: "2024-06-15", Status: models.ContratoAtivo})
	store.CreateContrato(models.Contrato{Numero: "3", Valor: 300, DataFim: "2024-01-31", Status: models.ContratoEncerrado})

	stats := store.Stats()
	if stats.Total != 3 {
		t.Fatalf("expected total 3, got %d", stats.Total)
	}
	if stats.Ativos != 2 {
		t.Fatalf("expected 2 ativos, got %d", stats.Ativos)
	}
	if stats.VencendoEm30Dias != 1 {
		t.Fatalf("expected 1 expiring in 30 days, got %d", stats.VencendoEm30Dias)
	}
	if stats.ValorTotal != 600 {
		t.Fatalf("expected valorTotal 600, got %f", stats.ValorTotal)
	}
}
