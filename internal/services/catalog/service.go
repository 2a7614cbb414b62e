package catalog

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"gorm.io/datatypes"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ean"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/reconcile"
)

// Fallback choice lists for an empty catalog.
var (
	DefaultEmbs   = []string{"PCT", "KG", "UN", "CX", "SC", "L", "LT"}
	DefaultSecoes = []string{"MERCEARIA", "Açougue", "Padaria"}
	DefaultGrupos = []string{"Frutas", "Carnes", "Frios"}
)

// Service is the catalog API used by handlers and the ledger.
type Service struct {
	store  Store
	cache  *Cache
	events events.Publisher
}

func NewService(store Store, cache *Cache, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{store: store, cache: cache, events: pub}
}

// NewProduct is the input of Add. Optional attributes default to "".
type NewProduct struct {
	EAN       string `json:"ean"`
	Descricao string `json:"descricao"`
	Emb       string `json:"emb"`
	Secao     string `json:"secao"`
	Grupo     string `json:"grupo"`
}

func key(raw string) (string, error) {
	code := ean.Normalize(raw)
	if code == "" {
		return "", apperr.Validation("ean", "%q has no digits", raw)
	}
	return code, nil
}

// Get normalizes raw and returns the product, or nil when it is not in the
// catalog.
func (s *Service) Get(ctx context.Context, raw string) (*models.Product, error) {
	code, err := key(raw)
	if err != nil {
		return nil, err
	}
	if p, ok := s.cache.GetProduct(ctx, code); ok {
		return p, nil
	}
	p, err := s.store.Get(ctx, code)
	if err != nil {
		log.Printf("❌ Catalog lookup %s failed: %v", code, err)
		return nil, err
	}
	if p != nil {
		s.cache.SetProduct(ctx, p)
	}
	return p, nil
}

// Add inserts a product only if its EAN is new. An existing product is
// never overwritten; created is false and the stored product is returned.
func (s *Service) Add(ctx context.Context, actor string, in NewProduct) (bool, *models.Product, error) {
	code, err := key(in.EAN)
	if err != nil {
		return false, nil, err
	}
	p := models.Product{
		EAN:       code,
		Descricao: in.Descricao,
		Emb:       in.Emb,
		Secao:     in.Secao,
		Grupo:     in.Grupo,
	}
	trimAttributes(&p)

	created, err := s.store.Insert(ctx, p)
	if err != nil {
		log.Printf("❌ Failed to add product %s: %v", code, err)
		return false, nil, err
	}
	if !created {
		existing, err := s.store.Get(ctx, code)
		if err != nil {
			return false, nil, err
		}
		return false, existing, nil
	}

	s.cache.Invalidate(ctx, code)
	s.events.Publish(ctx, events.New(events.ProductAdded, actor, p))
	log.Printf("🆕 Product added: %s - %s", code, p.Descricao)
	return true, &p, nil
}

// Upsert writes p over any existing product with the same EAN. changed is
// false when the stored attributes were already identical.
func (s *Service) Upsert(ctx context.Context, actor string, p models.Product) (bool, error) {
	code, err := key(p.EAN)
	if err != nil {
		return false, err
	}
	p.EAN = code
	trimAttributes(&p)

	changed, err := s.store.Upsert(ctx, p)
	if err != nil {
		log.Printf("❌ Failed to upsert product %s: %v", code, err)
		return false, err
	}
	if changed {
		s.cache.Invalidate(ctx, code)
		s.events.Publish(ctx, events.New(events.ProductUpdated, actor, p))
		log.Printf("🔄 Product updated: %s - %s", code, p.Descricao)
	}
	return changed, nil
}

func trimAttributes(p *models.Product) {
	p.Descricao = strings.TrimSpace(p.Descricao)
	p.Emb = strings.TrimSpace(p.Emb)
	p.Secao = strings.TrimSpace(p.Secao)
	p.Grupo = strings.TrimSpace(p.Grupo)
}

// BulkResult reports a bulk upsert. Invalid rows are skipped, not fatal.
type BulkResult struct {
	Applied int                `json:"applied"`
	Invalid []models.ReportRow `json:"invalid"`
}

// BulkUpsert normalizes and deduplicates rows (first occurrence wins) and
// writes them in one batched statement. Reapplying the same rows is a no-op.
func (s *Service) BulkUpsert(ctx context.Context, rows []models.ReportRow) (BulkResult, error) {
	res := BulkResult{Invalid: []models.ReportRow{}}
	seen := make(map[string]struct{}, len(rows))
	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		code := ean.Normalize(r.EAN)
		if code == "" {
			res.Invalid = append(res.Invalid, r)
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		products = append(products, r.Product(code))
	}
	if len(res.Invalid) > 0 {
		log.Printf("🚨 %d rows with invalid EAN skipped", len(res.Invalid))
	}

	applied, err := s.writeProducts(ctx, products)
	if err != nil {
		return res, err
	}
	res.Applied = applied
	return res, nil
}

func (s *Service) writeProducts(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	for i := range products {
		trimAttributes(&products[i])
	}
	applied, err := s.store.BulkUpsert(ctx, products)
	if err != nil {
		log.Printf("❌ Bulk upsert of %d products failed: %v", len(products), err)
		return 0, err
	}
	keys := make([]string, len(products))
	for i, p := range products {
		keys[i] = p.EAN
	}
	s.cache.Invalidate(ctx, keys...)
	return applied, nil
}

// ListAll returns the whole catalog ordered by EAN. On failure the error is
// returned with an empty slice so a reconciliation never runs against a
// catalog that only looks empty.
func (s *Service) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListAll(ctx)
	if err != nil {
		log.Printf("❌ Failed to list products: %v", err)
		return []models.Product{}, err
	}
	return products, nil
}

func (s *Service) Embs(ctx context.Context) []string   { return s.distinct(ctx, ColumnEmb) }
func (s *Service) Secoes(ctx context.Context) []string { return s.distinct(ctx, ColumnSecao) }
func (s *Service) Grupos(ctx context.Context) []string { return s.distinct(ctx, ColumnGrupo) }

// distinct never fails: errors are logged and yield an empty list.
func (s *Service) distinct(ctx context.Context, column string) []string {
	if values, ok := s.cache.GetChoices(ctx, column); ok {
		return values
	}
	values, err := s.store.Distinct(ctx, column)
	if err != nil {
		log.Printf("⚠️ Failed to load distinct %s: %v", column, err)
		return []string{}
	}
	s.cache.SetChoices(ctx, column, values)
	return values
}

// Choices feeds the product registration form.
type Choices struct {
	Embs   []string `json:"embs"`
	Secoes []string `json:"secoes"`
	Grupos []string `json:"grupos"`
}

// Choices returns the distinct attribute values, using the default lists
// for any attribute with no values yet.
func (s *Service) Choices(ctx context.Context) Choices {
	return Choices{
		Embs:   orDefault(s.Embs(ctx), DefaultEmbs),
		Secoes: orDefault(s.Secoes(ctx), DefaultSecoes),
		Grupos: orDefault(s.Grupos(ctx), DefaultGrupos),
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) > 0 {
		return values
	}
	out := make([]string, len(fallback))
	copy(out, fallback)
	return out
}

// Reconcile compares rows against the current catalog.
func (s *Service) Reconcile(ctx context.Context, rows []models.ReportRow) (reconcile.Result, error) {
	catalog, err := s.ListAll(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	return reconcile.Compare(rows, catalog), nil
}

// ImportRequest describes an upload to apply to the catalog.
type ImportRequest struct {
	Actor    string
	Format   string
	FileName string
	Mode     reconcile.Mode
	Rows     []models.ReportRow
}

// ImportReport is returned by Apply.
type ImportReport struct {
	Run    models.ImportRun `json:"run"`
	Result reconcile.Result `json:"result"`
}

// Apply reconciles the upload, writes the rows selected by the mode and
// records the run in the import history.
func (s *Service) Apply(ctx context.Context, req ImportRequest) (*ImportReport, error) {
	result, err := s.Reconcile(ctx, req.Rows)
	if err != nil {
		return nil, err
	}

	applied, err := s.writeProducts(ctx, reconcile.Plan(result, req.Mode))
	if err != nil {
		return nil, err
	}

	stats := result.Stats()
	summary, _ := json.Marshal(struct {
		Stats   reconcile.Stats `json:"stats"`
		Applied int             `json:"applied"`
		Rows    int             `json:"rows"`
	}{stats, applied, len(req.Rows)})

	run := models.ImportRun{
		Format:    req.Format,
		FileName:  req.FileName,
		Mode:      string(req.Mode),
		New:       stats.New,
		Missing:   stats.Missing,
		Divergent: stats.Divergent,
		Invalid:   stats.Invalid,
		Applied:   applied,
		Summary:   datatypes.JSON(summary),
		CreatedBy: req.Actor,
	}
	if err := s.store.CreateImportRun(ctx, &run); err != nil {
		log.Printf("⚠️ Import applied but history not recorded: %v", err)
	}

	s.events.Publish(ctx, events.New(events.CatalogImported, req.Actor, run))
	log.Printf("📦 Catalog import (%s, mode=%s): %d new, %d divergent, %d missing, %d applied",
		req.Format, req.Mode, stats.New, stats.Divergent, stats.Missing, applied)

	return &ImportReport{Run: run, Result: result}, nil
}

// ImportHistory lists the most recent import runs first.
func (s *Service) ImportHistory(ctx context.Context, limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListImportRuns(ctx, limit)
}
