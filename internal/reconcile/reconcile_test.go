package reconcile

import (
	"reflect"
	"testing"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

func row(code, desc, emb, secao, grupo string) models.ReportRow {
	return models.ReportRow{EAN: code, Descricao: desc, Emb: emb, Secao: secao, Grupo: grupo}
}

func TestCompareCategorizes(t *testing.T) {
	catalog := []models.Product{
		{EAN: "7891000000001", Descricao: "Arroz", Emb: "PCT", Secao: "Mercearia", Grupo: "Graos"},
		{EAN: "7891000000002", Descricao: "Feijao", Emb: "PCT", Secao: "Mercearia", Grupo: "Graos"},
		{EAN: "7891000000003", Descricao: "Leite", Emb: "L", Secao: "Laticinios", Grupo: "Leites"},
	}
	external := []models.ReportRow{
		row("7891000000001", " ARROZ ", "pct", "mercearia", "graos"),
		row("'7891000000002'", "Feijao Preto", "PCT", "Mercearia", "Graos"),
		row("7891000000009", "Cafe", "PCT", "Mercearia", "Bebidas"),
		row("---", "sem codigo", "", "", ""),
	}

	res := Compare(external, catalog)

	if len(res.New) != 1 || res.New[0].EAN != "7891000000009" {
		t.Errorf("New = %+v", res.New)
	}
	if len(res.Missing) != 1 || res.Missing[0].EAN != "7891000000003" {
		t.Errorf("Missing = %+v", res.Missing)
	}
	if len(res.Divergent) != 1 {
		t.Fatalf("Divergent = %+v", res.Divergent)
	}
	d := res.Divergent[0]
	if d.EAN != "7891000000002" || !reflect.DeepEqual(d.Fields, []string{"descricao"}) {
		t.Errorf("unexpected divergence %+v", d)
	}
	if d.Stored.Descricao != "Feijao" || d.External.Descricao != "Feijao Preto" {
		t.Errorf("divergence should carry both sides: %+v", d)
	}
	if len(res.Invalid) != 1 {
		t.Errorf("Invalid = %+v", res.Invalid)
	}
}

func TestCompareEmptyCatalog(t *testing.T) {
	external := []models.ReportRow{
		row("1", "a", "", "", ""),
		row("2", "b", "", "", ""),
	}
	res := Compare(external, nil)
	if len(res.New) != 2 || len(res.Missing) != 0 || len(res.Divergent) != 0 {
		t.Errorf("empty catalog: %+v", res.Stats())
	}
}

func TestCompareDuplicatesKeepFirst(t *testing.T) {
	external := []models.ReportRow{
		row("789 1", "first", "", "", ""),
		row("7891", "second", "", "", ""),
	}
	res := Compare(external, nil)
	if len(res.New) != 1 || res.New[0].Descricao != "first" {
		t.Errorf("New = %+v", res.New)
	}
}

func TestCompareDisjointness(t *testing.T) {
	catalog := []models.Product{{EAN: "1", Descricao: "x"}, {EAN: "2", Descricao: "y"}, {EAN: "4"}}
	external := []models.ReportRow{row("1", "x", "", "", ""), row("2", "z", "", "", ""), row("3", "w", "", "", "")}

	res := Compare(external, catalog)

	extKeys := map[string]bool{"1": true, "2": true, "3": true}
	for _, m := range res.Missing {
		if extKeys[m.EAN] {
			t.Errorf("missing product %s is present externally", m.EAN)
		}
	}
	newKeys := map[string]bool{}
	for _, n := range res.New {
		newKeys[n.EAN] = true
	}
	for _, d := range res.Divergent {
		if newKeys[d.EAN] {
			t.Errorf("%s is both new and divergent", d.EAN)
		}
	}
}

func TestPlanModes(t *testing.T) {
	res := Result{
		New:       []models.Product{{EAN: "1"}},
		Divergent: []Divergence{{EAN: "2", External: models.Product{EAN: "2", Descricao: "novo"}}},
		Missing:   []models.Product{{EAN: "3"}},
	}

	cases := map[Mode][]string{
		ModeNew:       {"1"},
		ModeNone:      {"1"},
		ModeDivergent: {"2"},
		ModeAll:       {"1", "2"},
	}
	for mode, want := range cases {
		var got []string
		for _, p := range Plan(res, mode) {
			got = append(got, p.EAN)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Plan(%s) = %v, want %v", mode, got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeNew {
		t.Errorf("ParseMode(\"\") = %q, %v", m, err)
	}
	if _, err := ParseMode("everything"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
