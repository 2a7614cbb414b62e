package ledger

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ean"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// ProductLookup resolves a raw code to a catalog product; nil means absent.
type ProductLookup interface {
	Get(ctx context.Context, raw string) (*models.Product, error)
}

type Service struct {
	store    Store
	products ProductLookup
	events   events.Publisher
	now      func() time.Time
}

func NewService(store Store, products ProductLookup, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:    store,
		products: products,
		events:   pub,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register adds quantity to the count uid holds for the product. The
// returned count carries the accumulated quantity.
func (s *Service) Register(ctx context.Context, uid, rawEAN string, quantity interface{}) (*models.Count, error) {
	if uid == "" {
		return nil, apperr.Validation("usuario", "is required")
	}
	code := ean.Normalize(rawEAN)
	if code == "" {
		return nil, apperr.Validation("ean", "%q has no digits", rawEAN)
	}
	qty, err := ParseQuantity(quantity)
	if err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.ErrNotFound
	}
	if err := checkUnit(qty, product.Emb); err != nil {
		return nil, err
	}

	c, err := s.store.Increment(ctx, uid, code, qty, s.now())
	if err != nil {
		log.Printf("❌ Count registration failed for %s: %v", code, err)
		return nil, err
	}

	s.events.Publish(ctx, events.New(events.CountRegistered, uid, c))
	log.Printf("🔢 Count %s +%s (total for user: %s)", code, qty, c.Quantidade)
	return c, nil
}

// UpdateByID sets an absolute quantity, bypassing accumulation.
func (s *Service) UpdateByID(ctx context.Context, actor string, id uint, quantity interface{}) (*models.Count, error) {
	qty, err := ParseQuantity(quantity)
	if err != nil {
		return nil, err
	}
	c, err := s.store.SetQuantity(ctx, id, qty, s.now())
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.CountUpdated, actor, c))
	log.Printf("✏️ Count %d set to %s by %s", id, qty, actor)
	return c, nil
}

// DeleteByID removes one count. A missing id is ErrNotFound.
func (s *Service) DeleteByID(ctx context.Context, actor string, id uint) error {
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	s.events.Publish(ctx, events.New(events.CountDeleted, actor, map[string]uint{"id": id}))
	return nil
}

// DeleteByUser removes every count of uid and returns how many were removed.
func (s *Service) DeleteByUser(ctx context.Context, actor, uid string) (int64, error) {
	n, err := s.store.DeleteByUser(ctx, uid)
	if err != nil {
		return 0, err
	}
	s.events.Publish(ctx, events.New(events.CountsCleared, actor, map[string]interface{}{"usuario_uid": uid, "removed": n}))
	log.Printf("🗑️ %d counts of user %s removed by %s", n, uid, actor)
	return n, nil
}

// DeleteAll empties the ledger.
func (s *Service) DeleteAll(ctx context.Context, actor string) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.events.Publish(ctx, events.New(events.CountsCleared, actor, map[string]interface{}{"removed": n}))
	log.Printf("🗑️ Ledger cleared by %s (%d counts)", actor, n)
	return n, nil
}

// TotalForProduct sums every user's count for the product; 0 when uncounted.
func (s *Service) TotalForProduct(ctx context.Context, rawEAN string) (decimal.Decimal, error) {
	code := ean.Normalize(rawEAN)
	if code == "" {
		return decimal.Zero, apperr.Validation("ean", "%q has no digits", rawEAN)
	}
	return s.store.TotalForProduct(ctx, code)
}

// Totals returns the per-product sums used by the audit.
func (s *Service) Totals(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.store.Totals(ctx)
}

func (s *Service) ListForUser(ctx context.Context, uid string) ([]models.CountWithProduct, error) {
	if uid == "" {
		return nil, apperr.Validation("usuario", "is required")
	}
	return s.store.ListDetailed(ctx, uid)
}

func (s *Service) ListAllDetailed(ctx context.Context) ([]models.CountWithProduct, error) {
	return s.store.ListDetailed(ctx, "")
}
