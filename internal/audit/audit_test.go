package audit

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixture() []Row {
	system := []models.ReportRow{
		{EAN: "1", Descricao: "Arroz", Secao: "MERCEARIA", Grupo: "GRAOS", EstoqueSistema: "10"},
		{EAN: "2", Descricao: "Feijao", Secao: "MERCEARIA", Grupo: "GRAOS", EstoqueSistema: "1.234,5"},
		{EAN: "3", Descricao: "Picanha", Secao: "ACOUGUE", Grupo: "BOVINOS", EstoqueSistema: "2,5"},
		{EAN: "4", Descricao: "Sal", Secao: "MERCEARIA", Grupo: "TEMPEROS", EstoqueSistema: "n/a"},
	}
	totals := map[string]decimal.Decimal{
		"1": dec("12"),
		"2": dec("1234.5"),
		"3": dec("1.25"),
		"9": dec("7"),
	}
	return Compute(system, totals)
}

func TestComputeLeftJoin(t *testing.T) {
	rows := fixture()
	if len(rows) != 4 {
		t.Fatalf("every system row must appear once, got %d", len(rows))
	}

	want := map[string][3]string{
		"1": {"10", "12", "2"},
		"2": {"1234.5", "1234.5", "0"},
		"3": {"2.5", "1.25", "-1.25"},
		"4": {"0", "0", "0"},
	}
	for _, r := range rows {
		w := want[r.EAN]
		if !r.EstoqueSistema.Equal(dec(w[0])) || !r.EstoqueContado.Equal(dec(w[1])) || !r.Diferenca.Equal(dec(w[2])) {
			t.Errorf("%s: sistema=%s contado=%s diferenca=%s, want %v", r.EAN, r.EstoqueSistema, r.EstoqueContado, r.Diferenca, w)
		}
		if !r.Diferenca.Equal(r.EstoqueContado.Sub(r.EstoqueSistema)) {
			t.Errorf("%s: diferenca must equal contado - sistema", r.EAN)
		}
	}
}

func TestComputeFallsBackToNormalizedCode(t *testing.T) {
	system := []models.ReportRow{{EAN: "0017891000000001", EstoqueSistema: "1"}}
	totals := map[string]decimal.Decimal{"7891000000001": dec("3")}

	rows := Compute(system, totals)
	if !rows[0].EstoqueContado.Equal(dec("3")) {
		t.Errorf("EstoqueContado = %s, want 3", rows[0].EstoqueContado)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())
	if s.TotalProducts != 4 || s.Counted != 3 || s.WithDifference != 2 || s.Positive != 1 || s.Negative != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if !s.SumDifference.Equal(dec("0.75")) {
		t.Errorf("SumDifference = %s, want 0.75", s.SumDifference)
	}
}

func TestFilter(t *testing.T) {
	rows := fixture()

	cases := []struct {
		name string
		f    Filter
		want []string
	}{
		{"none", Filter{}, []string{"1", "2", "3", "4"}},
		{"section", Filter{Secao: "MERCEARIA"}, []string{"1", "2", "4"}},
		{"section and group", Filter{Secao: "MERCEARIA", Grupo: "GRAOS"}, []string{"1", "2"}},
		{"positive", Filter{Diff: DiffPositive}, []string{"1"}},
		{"negative", Filter{Diff: DiffNegative}, []string{"3"}},
		{"zero", Filter{Diff: DiffZero}, []string{"2", "4"}},
		{"nonzero", Filter{Diff: DiffNonZero}, []string{"1", "3"}},
		{"zero and counted", Filter{Diff: DiffZero, OnlyCounted: true}, []string{"2"}},
		{"section without match", Filter{Secao: "PADARIA"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, r := range tc.f.Apply(rows) {
				got = append(got, r.EAN)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCascadingChoices(t *testing.T) {
	rows := fixture()
	if got := Sections(rows); !reflect.DeepEqual(got, []string{"ACOUGUE", "MERCEARIA"}) {
		t.Errorf("Sections = %v", got)
	}
	if got := GroupsFor(rows, "MERCEARIA"); !reflect.DeepEqual(got, []string{"GRAOS", "TEMPEROS"}) {
		t.Errorf("GroupsFor = %v", got)
	}
	if got := GroupsFor(rows, ""); len(got) != 3 {
		t.Errorf("GroupsFor(all) = %v", got)
	}
}

func TestDiffFilterValid(t *testing.T) {
	if !DiffFilter("nonzero").Valid() || DiffFilter("bigger").Valid() {
		t.Error("unexpected DiffFilter validation")
	}
}

func TestComputeReadsGroupedStock(t *testing.T) {
	system := []models.ReportRow{{EAN: "5", Descricao: "Acucar", EstoqueSistema: "1.234"}}
	rows := Compute(system, map[string]decimal.Decimal{"5": dec("1234")})
	if !rows[0].EstoqueSistema.Equal(dec("1234")) || !rows[0].Diferenca.IsZero() {
		t.Errorf("stock 1.234 should read as 1234, got %s (diff %s)", rows[0].EstoqueSistema, rows[0].Diferenca)
	}
}
