package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ingest"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/reconcile"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/catalog"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/export"
)

func (r *Router) listFormats(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"formats": r.Formats.Formats()})
}

// reconcileCatalog compares an uploaded product report with the catalog
// without writing anything. export=new|missing|divergent downloads one
// category as CSV.
func (r *Router) reconcileCatalog(w http.ResponseWriter, req *http.Request) {
	_, _, rows, err := r.parseUpload(w, req, ingest.FormatGeneric)
	if err != nil {
		respondErr(w, err)
		return
	}
	result, err := r.Catalog.Reconcile(req.Context(), rows)
	if err != nil {
		respondErr(w, err)
		return
	}

	category := req.URL.Query().Get("export")
	if category == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"stats":  result.Stats(),
			"result": result,
		})
		return
	}

	opts := r.exportOptions(req)
	var buf bytes.Buffer
	switch category {
	case "new":
		err = export.Products(&buf, result.New, opts)
	case "missing":
		err = export.Products(&buf, result.Missing, opts)
	case "divergent":
		err = export.Divergences(&buf, result.Divergent, opts)
	default:
		respondError(w, http.StatusBadRequest, "export must be new, missing or divergent")
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	attachment(w, opts.ContentType(), "produtos_"+category+".csv")
	w.Write(buf.Bytes())
}

// importCatalog reconciles the upload and applies the rows selected by mode
func (r *Router) importCatalog(w http.ResponseWriter, req *http.Request) {
	mode, err := reconcile.ParseMode(req.URL.Query().Get("mode"))
	if err != nil {
		respondErr(w, apperr.Validation("mode", "%v", err))
		return
	}
	format, name, rows, err := r.parseUpload(w, req, ingest.FormatGeneric)
	if err != nil {
		respondErr(w, err)
		return
	}

	report, err := r.Catalog.Apply(req.Context(), catalog.ImportRequest{
		Actor:    identity(req).Username,
		Format:   format,
		FileName: name,
		Mode:     mode,
		Rows:     rows,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (r *Router) importHistory(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	runs, err := r.Catalog.ImportHistory(req.Context(), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}
