package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/reconcile"
)

func newTestService() (*Service, *MemoryStore, *events.Recorder) {
	store := NewMemoryStore()
	rec := &events.Recorder{}
	return NewService(store, nil, rec), store, rec
}

func TestGetNormalizesAndReportsAbsence(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, "admin", NewProduct{EAN: "7891000000001", Descricao: "Arroz"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	p, err := svc.Get(ctx, " '7891000000001' ")
	if err != nil || p == nil || p.Descricao != "Arroz" {
		t.Fatalf("Get = %+v, %v", p, err)
	}

	p, err = svc.Get(ctx, "123")
	if err != nil || p != nil {
		t.Errorf("absent product should be nil, nil; got %+v, %v", p, err)
	}

	if _, err := svc.Get(ctx, "abc"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAddNeverOverwrites(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := context.Background()

	created, _, err := svc.Add(ctx, "admin", NewProduct{EAN: "1", Descricao: "Original", Emb: "UN"})
	if err != nil || !created {
		t.Fatalf("first Add: created=%v err=%v", created, err)
	}

	created, existing, err := svc.Add(ctx, "admin", NewProduct{EAN: "1", Descricao: "Outro"})
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if created {
		t.Error("existing EAN must report created=false")
	}
	if existing == nil || existing.Descricao != "Original" || existing.Emb != "UN" {
		t.Errorf("existing product changed: %+v", existing)
	}
	if got := rec.Types(); !reflect.DeepEqual(got, []string{events.ProductAdded}) {
		t.Errorf("events = %v", got)
	}

	if _, _, err := svc.Add(ctx, "admin", NewProduct{EAN: "--", Descricao: "x"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("invalid EAN should fail validation, got %v", err)
	}
}

func TestUpsertSkipsIdenticalAttributes(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := context.Background()
	p := models.Product{EAN: "1", Descricao: "Leite", Emb: "L"}

	if changed, err := svc.Upsert(ctx, "admin", p); err != nil || !changed {
		t.Fatalf("insert: changed=%v err=%v", changed, err)
	}
	if changed, _ := svc.Upsert(ctx, "admin", p); changed {
		t.Error("identical upsert must be a no-op")
	}
	p.Descricao = "Leite Integral"
	if changed, _ := svc.Upsert(ctx, "admin", p); !changed {
		t.Error("changed attribute must update")
	}
	if len(rec.Events()) != 2 {
		t.Errorf("expected 2 events, got %v", rec.Types())
	}
}

func TestBulkUpsertIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	rows := []models.ReportRow{
		{EAN: "1", Descricao: "A"},
		{EAN: "2", Descricao: "B"},
		{EAN: "1", Descricao: "A duplicada"},
		{EAN: "sem", Descricao: "invalido"},
	}

	res, err := svc.BulkUpsert(ctx, rows)
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if res.Applied != 2 || len(res.Invalid) != 1 {
		t.Errorf("first run: %+v", res)
	}

	res, err = svc.BulkUpsert(ctx, rows)
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if res.Applied != 0 {
		t.Errorf("second run should apply nothing, applied %d", res.Applied)
	}

	all, _ := store.ListAll(ctx)
	if len(all) != 2 || all[0].Descricao != "A" {
		t.Errorf("catalog = %+v", all)
	}
}

func TestChoicesFallBackWhenEmpty(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	c := svc.Choices(ctx)
	if !reflect.DeepEqual(c.Embs, DefaultEmbs) || !reflect.DeepEqual(c.Secoes, DefaultSecoes) || !reflect.DeepEqual(c.Grupos, DefaultGrupos) {
		t.Errorf("defaults not applied: %+v", c)
	}

	svc.Add(ctx, "admin", NewProduct{EAN: "1", Descricao: "x", Emb: "UN", Secao: "LIMPEZA"})
	svc.Add(ctx, "admin", NewProduct{EAN: "2", Descricao: "y", Emb: "CX", Secao: "LIMPEZA"})

	c = svc.Choices(ctx)
	if !reflect.DeepEqual(c.Embs, []string{"CX", "UN"}) {
		t.Errorf("Embs = %v", c.Embs)
	}
	if !reflect.DeepEqual(c.Secoes, []string{"LIMPEZA"}) {
		t.Errorf("Secoes = %v", c.Secoes)
	}
	if !reflect.DeepEqual(c.Grupos, DefaultGrupos) {
		t.Errorf("Grupos should fall back, got %v", c.Grupos)
	}
}

type failingStore struct{ *MemoryStore }

var errDown = apperr.Storage("test", errors.New("connection refused"))

func (failingStore) ListAll(context.Context) ([]models.Product, error) {
	return []models.Product{}, errDown
}
func (failingStore) Distinct(context.Context, string) ([]string, error) { return nil, errDown }

func TestFailuresAreSurfacedOrSwallowed(t *testing.T) {
	svc := NewService(failingStore{NewMemoryStore()}, nil, nil)
	ctx := context.Background()

	list, err := svc.ListAll(ctx)
	if !errors.Is(err, apperr.ErrStorage) || list == nil || len(list) != 0 {
		t.Errorf("ListAll = %v, %v", list, err)
	}
	if _, err := svc.Reconcile(ctx, []models.ReportRow{{EAN: "1"}}); err == nil {
		t.Error("reconcile must not run against an unreadable catalog")
	}
	if got := svc.Embs(ctx); got == nil || len(got) != 0 {
		t.Errorf("Embs should be empty on failure, got %v", got)
	}
}

func TestApplyModes(t *testing.T) {
	ctx := context.Background()
	rows := []models.ReportRow{
		{EAN: "1", Descricao: "Arroz Novo"},
		{EAN: "3", Descricao: "Cafe"},
	}

	cases := []struct {
		mode    reconcile.Mode
		applied int
		desc1   string
		has3    bool
	}{
		{reconcile.ModeNew, 1, "Arroz", true},
		{reconcile.ModeNone, 1, "Arroz", true},
		{reconcile.ModeDivergent, 1, "Arroz Novo", false},
		{reconcile.ModeAll, 2, "Arroz Novo", true},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			svc, store, rec := newTestService()
			store.Upsert(ctx, models.Product{EAN: "1", Descricao: "Arroz"})
			store.Upsert(ctx, models.Product{EAN: "2", Descricao: "Feijao"})

			report, err := svc.Apply(ctx, ImportRequest{Actor: "admin", Format: "generic_csv", FileName: "produtos.csv", Mode: tc.mode, Rows: rows})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if report.Run.Applied != tc.applied {
				t.Errorf("applied = %d, want %d", report.Run.Applied, tc.applied)
			}
			if report.Run.New != 1 || report.Run.Divergent != 1 || report.Run.Missing != 1 {
				t.Errorf("unexpected stats %+v", report.Run)
			}

			p1, _ := store.Get(ctx, "1")
			if p1.Descricao != tc.desc1 {
				t.Errorf("product 1 = %q, want %q", p1.Descricao, tc.desc1)
			}
			p3, _ := store.Get(ctx, "3")
			if (p3 != nil) != tc.has3 {
				t.Errorf("product 3 present = %v, want %v", p3 != nil, tc.has3)
			}
			p2, _ := store.Get(ctx, "2")
			if p2 == nil {
				t.Error("missing products are never deleted")
			}

			history, _ := svc.ImportHistory(ctx, 10)
			if len(history) != 1 || history[0].Mode != string(tc.mode) || len(history[0].Summary) == 0 {
				t.Errorf("history = %+v", history)
			}
			if got := rec.Types(); len(got) != 1 || got[0] != events.CatalogImported {
				t.Errorf("events = %v", got)
			}
		})
	}
}

func TestUpsertTrimsAttributes(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "admin", models.Product{EAN: " 7891234567895 ", Descricao: " Arroz ", Emb: "KG ", Secao: " MERCEARIA", Grupo: "\tGRAOS"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, _ := store.Get(ctx, "7891234567895")
	want := models.Product{EAN: "7891234567895", Descricao: "Arroz", Emb: "KG", Secao: "MERCEARIA", Grupo: "GRAOS"}
	if got == nil || got.Descricao != want.Descricao || got.Emb != want.Emb || got.Secao != want.Secao || got.Grupo != want.Grupo {
		t.Errorf("stored %+v, want %+v", got, want)
	}
	if changed, _ := svc.Upsert(ctx, "admin", want); changed {
		t.Error("padding alone must not count as a change")
	}
}

func TestImportKeysLongCodesByLastThirteenDigits(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	rows := []models.ReportRow{{EAN: "12345678901234567", Descricao: "Codigo interno"}}

	if _, err := svc.Apply(ctx, ImportRequest{Actor: "admin", Format: "vendor_report", Mode: reconcile.ModeAll, Rows: rows}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p, _ := store.Get(ctx, "5678901234567"); p == nil || p.Descricao != "Codigo interno" {
		t.Errorf("product should be stored under the scan key, got %+v", p)
	}
	if p, _ := store.Get(ctx, "12345678901234567"); p != nil {
		t.Errorf("full-length code should not be a catalog key, got %+v", p)
	}
}
