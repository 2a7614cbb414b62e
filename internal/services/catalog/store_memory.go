package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// MemoryStore is an in-process Store used by tests and the demo seeder.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	runs     []models.ImportRun
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]models.Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Get(_ context.Context, ean string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[ean]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryStore) Insert(_ context.Context, p models.Product) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.products[p.EAN]; exists {
		return false, nil
	}
	now := m.now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.products[p.EAN] = p
	return true, nil
}

func (m *MemoryStore) Upsert(_ context.Context, p models.Product) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(p), nil
}

func (m *MemoryStore) upsertLocked(p models.Product) bool {
	now := m.now()
	cur, exists := m.products[p.EAN]
	if !exists {
		p.CreatedAt, p.UpdatedAt = now, now
		m.products[p.EAN] = p
		return true
	}
	if cur.Descricao == p.Descricao && cur.Emb == p.Emb && cur.Secao == p.Secao && cur.Grupo == p.Grupo {
		return false
	}
	p.CreatedAt, p.UpdatedAt = cur.CreatedAt, now
	m.products[p.EAN] = p
	return true
}

func (m *MemoryStore) BulkUpsert(_ context.Context, ps []models.Product) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range ps {
		if m.upsertLocked(p) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ListAll(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EAN < out[j].EAN })
	return out, nil
}

func (m *MemoryStore) Distinct(_ context.Context, column string) ([]string, error) {
	if err := checkColumn(column); err != nil {
		return []string{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range m.products {
		var v string
		switch column {
		case ColumnEmb:
			v = p.Emb
		case ColumnSecao:
			v = p.Secao
		case ColumnGrupo:
			v = p.Grupo
		}
		if _, dup := seen[v]; v == "" || dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) CreateImportRun(_ context.Context, run *models.ImportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = uint(len(m.runs) + 1)
	run.CreatedAt = m.now()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *MemoryStore) ListImportRuns(_ context.Context, limit int) ([]models.ImportRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.ImportRun{}
	for i := len(m.runs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}
