package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/audit"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ingest"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/export"
)

// runAudit joins an uploaded stock report with the counted totals.
// Filters: secao, grupo, diff (positive|negative|zero|nonzero), counted=true.
// The summary always covers the filtered rows.
func (r *Router) runAudit(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	filter := audit.Filter{
		Secao:       q.Get("secao"),
		Grupo:       q.Get("grupo"),
		Diff:        audit.DiffFilter(q.Get("diff")),
		OnlyCounted: q.Get("counted") == "true",
	}
	if !filter.Diff.Valid() {
		respondErr(w, apperr.Validation("diff", "must be positive, negative, zero or nonzero"))
		return
	}

	_, _, system, err := r.parseUpload(w, req, ingest.FormatStock)
	if err != nil {
		respondErr(w, err)
		return
	}
	totals, err := r.Ledger.Totals(req.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	all := audit.Compute(system, totals)
	rows := filter.Apply(all)
	summary := audit.Summarize(rows)

	switch q.Get("export") {
	case "":
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"summary": summary,
			"rows":    rows,
			"secoes":  audit.Sections(all),
			"grupos":  audit.GroupsFor(all, filter.Secao),
		})
	case "csv":
		opts := r.exportOptions(req)
		var buf bytes.Buffer
		if err := export.Audit(&buf, rows, opts); err != nil {
			respondErr(w, err)
			return
		}
		attachment(w, opts.ContentType(), "auditoria.csv")
		w.Write(buf.Bytes())
	case "pdf":
		data, err := export.AuditPDF(rows, summary, time.Now())
		if err != nil {
			respondErr(w, err)
			return
		}
		attachment(w, "application/pdf", "auditoria.pdf")
		w.Write(data)
	default:
		respondError(w, http.StatusBadRequest, "export must be csv or pdf")
	}
}
