package services

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/moniquedpoliveira/licito3/models"
)

// RecordStore is the in-memory relational stand-in for users, contratos and
// checklist items. It performs no validation, enforces no uniqueness and does
// not cascade. Guarded by a lock because Gin serves requests concurrently.
type RecordStore struct {
	mu             sync.RWMutex
	users          []models.User
	contratos      []models.Contrato
	checklistItems []models.ChecklistItem
	now            func() time.Time
}

// NewRecordStore returns an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{now: time.Now}
}

// NewSeededRecordStore returns a store preloaded with the demo dataset. All
// seeded accounts use the password "password".
func NewSeededRecordStore() *RecordStore {
	s := NewRecordStore()
	s.users = seedUsers()
	s.contratos = seedContratos()
	s.checklistItems = seedChecklistItems()
	return s
}

// FindUserByEmail returns nil when no user matches.
func (s *RecordStore) FindUserByEmail(email string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user
		}
	}
	return nil
}

// FindUserByID returns nil when no user matches.
func (s *RecordStore) FindUserByID(id string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user
		}
	}
	return nil
}

// Users returns every account.
func (s *RecordStore) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// UpdateUserPassword swaps the stored hash. Returns false when no user
// matches.
func (s *RecordStore) UpdateUserPassword(id, passwordHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Password = passwordHash
			return true
		}
	}
	return false
}

// FindContratos returns every contract.
func (s *RecordStore) FindContratos() []models.Contrato {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Contrato, len(s.contratos))
	copy(out, s.contratos)
	return out
}

// FindContratoByID returns nil when no contract matches.
func (s *RecordStore) FindContratoByID(id string) *models.Contrato {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contratos {
		if c.ID == id {
			contrato := c
			return &contrato
		}
	}
	return nil
}

// CreateContrato assigns a sequential id derived from the collection length
// and stamps both timestamps with the current time.
func (s *RecordStore) CreateContrato(data models.Contrato) models.Contrato {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	data.ID = strconv.Itoa(len(s.contratos) + 1)
	data.CreatedAt = now
	data.UpdatedAt = now
	s.contratos = append(s.contratos, data)
	return data
}

// UpdateContrato shallow-merges the provided fields onto the record and bumps
// updatedAt. Returns nil when no contract matches.
func (s *RecordStore) UpdateContrato(id string, update models.ContratoUpdate) *models.Contrato {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.contratos {
		if s.contratos[i].ID != id {
			continue
		}
		c := &s.contratos[i]
		if update.Numero != nil {
			c.Numero = *update.Numero
		}
		if update.Objeto != nil {
			c.Objeto = *update.Objeto
		}
		if update.Valor != nil {
			c.Valor = *update.Valor
		}
		if update.DataInicio != nil {
			c.DataInicio = *update.DataInicio
		}
		if update.DataFim != nil {
			c.DataFim = *update.DataFim
		}
		if update.Status != nil {
			c.Status = *update.Status
		}
		if update.GestorID != nil {
			c.GestorID = *update.GestorID
		}
		if update.OrgaoContratante != nil {
			c.OrgaoContratante = *update.OrgaoContratante
		}
		if update.NomeContratada != nil {
			c.NomeContratada = *update.NomeContratada
		}
		if update.CnpjContratada != nil {
			c.CnpjContratada = *update.CnpjContratada
		}
		if update.GestorContrato != nil {
			c.GestorContrato = *update.GestorContrato
		}
		c.UpdatedAt = s.now()
		contrato := *c
		return &contrato
	}
	return nil
}

// FindChecklistItems returns the contract's items, optionally filtered by
// phase, sorted ascending by index.
func (s *RecordStore) FindChecklistItems(contratoID, tipo string) []models.ChecklistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChecklistItem, 0)
	for _, item := range s.checklistItems {
		if item.ContratoID != contratoID {
			continue
		}
		if tipo != "" && item.Tipo != tipo {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

// FindChecklistItemByID returns nil when no item matches.
func (s *RecordStore) FindChecklistItemByID(id string) *models.ChecklistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.checklistItems {
		if it.ID == id {
			item := it
			return &item
		}
	}
	return nil
}

// UpdateChecklistItem shallow-merges the provided fields onto the item.
// Returns nil when no item matches.
func (s *RecordStore) UpdateChecklistItem(id string, update models.ChecklistItemUpdate) *models.ChecklistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.checklistItems {
		if s.checklistItems[i].ID != id {
			continue
		}
		item := &s.checklistItems[i]
		if update.Item != nil {
			item.Item = *update.Item
		}
		if update.Observacao != nil {
			item.Observacao = *update.Observacao
		}
		if update.Status != nil {
			item.Status = *update.Status
		}
		if update.Index != nil {
			item.Index = *update.Index
		}
		out := *item
		return &out
	}
	return nil
}

// ChecklistProgress reports the percentage of a contract's items that are
// concluded or not applicable.
func (s *RecordStore) ChecklistProgress(contratoID string) int {
	items := s.FindChecklistItems(contratoID, "")
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.Status == models.ItemConcluido || item.Status == models.ItemNaoAplicavel {
			done++
		}
	}
	return done * 100 / len(items)
}

// Stats summarizes the contract collection for the dashboard.
func (s *RecordStore) Stats() models.ContratoStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	cutoff := now.Add(30 * 24 * time.Hour)

	stats := models.ContratoStats{Total: len(s.contratos)}
	for _, c := range s.contratos {
		stats.ValorTotal += c.Valor
		end, err := time.Parse("2006-01-02", c.DataFim)
		if err != nil {
			continue
		}
		if end.After(now) {
			stats.Ativos++
		}
		if !end.Before(now) && !end.After(cutoff) {
			stats.VencendoEm30Dias++
		}
	}
	return stats
}

// bcrypt hash of "password", shared by the demo accounts.
const seedPasswordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func seedUsers() []models.User {
	return []models.User{
		{ID: "1", Email: "admin@example.com", Name: "Administrador", Role: models.RoleAdmin, Password: seedPasswordHash},
		{ID: "2", Email: "gestor@example.com", Name: "Gestor de Contratos", Role: models.RoleGestorContrato, Password: seedPasswordHash},
		{ID: "3", Email: "fiscal@example.com", Name: "Fiscal", Role: models.RoleFiscal, Password: seedPasswordHash},
		{ID: "4", Email: "ordenador@example.com", Name: "Ordenador de Despesas", Role: models.RoleOrdenadorDespesas, Password: seedPasswordHash},
	}
}

func seedContratos() []models.Contrato {
	t := func(s string) time.Time {
		out, _ := time.Parse(time.RFC3339, s)
		return out
	}
	return []models.Contrato{
		{
			ID: "1", Numero: "001/2024", Objeto: "Aquisição de equipamentos de informática",
			Valor: 50000.00, DataInicio: "2024-01-01", DataFim: "2024-12-31",
			Status: models.ContratoAtivo, GestorID: "2",
			CreatedAt: t("2024-01-01T00:00:00Z"), UpdatedAt: t("2024-01-01T00:00:00Z"),
		},
		{
			ID: "2", Numero: "002/2024", Objeto: "Serviços de limpeza",
			Valor: 25000.00, DataInicio: "2024-02-01", DataFim: "2024-11-30",
			Status: models.ContratoAtivo, GestorID: "2",
			CreatedAt: t("2024-02-01T00:00:00Z"), UpdatedAt: t("2024-02-01T00:00:00Z"),
		},
		{
			ID: "3", Numero: "003/2024", Objeto: "Manutenção de ar condicionado",
			Valor: 15000.00, DataInicio: "2024-03-01", DataFim: "2024-08-31",
			Status: models.ContratoSuspenso, GestorID: "2",
			CreatedAt: t("2024-03-01T00:00:00Z"), UpdatedAt: t("2024-03-01T00:00:00Z"),
		},
	}
}

func seedChecklistItems() []models.ChecklistItem {
	return []models.ChecklistItem{
		{ID: "1", ContratoID: "1", Tipo: models.ChecklistInicial, Item: "Documentação do contrato está completa", Status: models.ItemConcluido, Index: 1},
		{ID: "2", ContratoID: "1", Tipo: models.ChecklistInicial, Item: "Recursos financeiros disponíveis", Status: models.ItemConcluido, Index: 2},
		{ID: "3", ContratoID: "1", Tipo: models.ChecklistInicial, Item: "Equipe técnica designada", Status: models.ItemPendente, Index: 3},
		{ID: "4", ContratoID: "1", Tipo: models.ChecklistExecucao, Item: "Cronograma de execução aprovado", Status: models.ItemConcluido, Index: 1},
		{ID: "5", ContratoID: "1", Tipo: models.ChecklistExecucao, Item: "Relatórios de progresso em dia", Status: models.ItemPendente, Index: 2},
		{ID: "6", ContratoID: "1", Tipo: models.ChecklistFinal, Item: "Obra/serviço concluído", Status: models.ItemNaoAplicavel, Index: 1},
		{ID: "7", ContratoID: "1", Tipo: models.ChecklistFinal, Item: "Relatório final apresentado", Status: models.ItemNaoAplicavel, Index: 2},
	}
}
