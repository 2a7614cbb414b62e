package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

type pairKey struct{ uid, ean string }

// MemoryStore is an in-process Store. The optional lookups fill the joined
// columns of ListDetailed.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Count
	byPair map[pairKey]uint

	Usernames func(uid string) string
	Products  func(ean string) (models.Product, bool)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:   make(map[uint]*models.Count),
		byPair: make(map[pairKey]uint),
	}
}

func (m *MemoryStore) Increment(_ context.Context, uid, ean string, qty decimal.Decimal, at time.Time) (*models.Count, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := pairKey{uid, ean}
	if id, ok := m.byPair[k]; ok {
		c := m.rows[id]
		c.Quantidade = c.Quantidade.Add(qty)
		c.LastUpdatedAt = at
		out := *c
		return &out, nil
	}

	m.nextID++
	c := &models.Count{
		ID:            m.nextID,
		UsuarioUID:    uid,
		EAN:           ean,
		Quantidade:    qty,
		LastUpdatedAt: at,
		CreatedAt:     at,
	}
	m.rows[c.ID] = c
	m.byPair[k] = c.ID
	out := *c
	return &out, nil
}

func (m *MemoryStore) SetQuantity(_ context.Context, id uint, qty decimal.Decimal, at time.Time) (*models.Count, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	c.Quantidade = qty
	c.LastUpdatedAt = at
	out := *c
	return &out, nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteWhere(func(c *models.Count) bool { return c.ID == id }), nil
}

func (m *MemoryStore) DeleteByUser(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteWhere(func(c *models.Count) bool { return c.UsuarioUID == uid }), nil
}

func (m *MemoryStore) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteWhere(func(*models.Count) bool { return true }), nil
}

func (m *MemoryStore) deleteWhere(match func(*models.Count) bool) int64 {
	var n int64
	for id, c := range m.rows {
		if match(c) {
			delete(m.rows, id)
			delete(m.byPair, pairKey{c.UsuarioUID, c.EAN})
			n++
		}
	}
	return n
}

func (m *MemoryStore) TotalForProduct(_ context.Context, ean string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, c := range m.rows {
		if c.EAN == ean {
			total = total.Add(c.Quantidade)
		}
	}
	return total, nil
}

func (m *MemoryStore) Totals(_ context.Context) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := make(map[string]decimal.Decimal)
	for _, c := range m.rows {
		totals[c.EAN] = totals[c.EAN].Add(c.Quantidade)
	}
	return totals, nil
}

func (m *MemoryStore) ListDetailed(_ context.Context, uid string) ([]models.CountWithProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.CountWithProduct{}
	for _, c := range m.rows {
		if uid != "" && c.UsuarioUID != uid {
			continue
		}
		row := models.CountWithProduct{
			ID:            c.ID,
			UsuarioUID:    c.UsuarioUID,
			EAN:           c.EAN,
			Quantidade:    c.Quantidade,
			LastUpdatedAt: c.LastUpdatedAt,
		}
		if m.Usernames != nil {
			row.Username = m.Usernames(c.UsuarioUID)
		}
		if m.Products != nil {
			if p, ok := m.Products(c.EAN); ok {
				row.Descricao, row.Emb, row.Secao, row.Grupo = p.Descricao, p.Emb, p.Secao, p.Grupo
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		if !out[i].LastUpdatedAt.Equal(out[j].LastUpdatedAt) {
			return out[i].LastUpdatedAt.After(out[j].LastUpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
