package models

// ReportRow is one line of an uploaded product or stock report. It is never
// persisted; EstoqueSistema keeps the raw text for locale-aware coercion.
type ReportRow struct {
	EAN            string `json:"ean"`
	Descricao      string `json:"descricao"`
	Emb            string `json:"emb"`
	Secao          string `json:"secao"`
	Grupo          string `json:"grupo"`
	EstoqueSistema string `json:"estoque_sistema,omitempty"`
	Line           int    `json:"line"`
}

// Product converts the row into a catalog entry with the given key.
func (r ReportRow) Product(key string) Product {
	return Product{
		EAN:       key,
		Descricao: r.Descricao,
		Emb:       r.Emb,
		Secao:     r.Secao,
		Grupo:     r.Grupo,
	}
}
