package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/export"
)

// CountRequest is a scan-and-count submission. Quantidade may be a JSON
// number or a pt-BR string such as "1,5".
type CountRequest struct {
	EAN        string      `json:"ean"`
	Quantidade interface{} `json:"quantidade"`
	// RequestID lets a scanner retry without counting twice
	RequestID string `json:"request_id,omitempty"`
}

type quantityRequest struct {
	Quantidade interface{} `json:"quantidade"`
}

func decodeNumbers(req *http.Request, v interface{}) error {
	dec := json.NewDecoder(req.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

// registerCount adds to the caller's count for the product
func (r *Router) registerCount(w http.ResponseWriter, req *http.Request) {
	var body CountRequest
	if err := decodeNumbers(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.RequestID == "" {
		body.RequestID = req.Header.Get("X-Request-ID")
	}
	if r.dedup.IsDuplicate(req.Context(), body.RequestID) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"duplicate": true, "request_id": body.RequestID})
		return
	}

	count, err := r.Ledger.Register(req.Context(), identity(req).UserID, body.EAN, body.Quantidade)
	if err != nil {
		r.dedup.Forget(req.Context(), body.RequestID)
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, count)
}

func (r *Router) updateCount(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(muxVar(req, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var body quantityRequest
	if err := decodeNumbers(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	count, err := r.Ledger.UpdateByID(req.Context(), identity(req).Username, uint(id), body.Quantidade)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, count)
}

func (r *Router) deleteCount(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(muxVar(req, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := r.Ledger.DeleteByID(req.Context(), identity(req).Username, uint(id)); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) deleteUserCounts(w http.ResponseWriter, req *http.Request) {
	n, err := r.Ledger.DeleteByUser(req.Context(), identity(req).Username, muxVar(req, "uid"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// deleteAllCounts wipes the ledger; ?confirm=true guards against accidents
func (r *Router) deleteAllCounts(w http.ResponseWriter, req *http.Request) {
	if req.URL.Query().Get("confirm") != "true" {
		respondError(w, http.StatusBadRequest, "Pass confirm=true to delete every count")
		return
	}
	n, err := r.Ledger.DeleteAll(req.Context(), identity(req).Username)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (r *Router) countTotal(w http.ResponseWriter, req *http.Request) {
	total, err := r.Ledger.TotalForProduct(req.Context(), muxVar(req, "ean"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"ean": muxVar(req, "ean"), "total": total})
}

func (r *Router) myCounts(w http.ResponseWriter, req *http.Request) {
	rows, err := r.Ledger.ListForUser(req.Context(), identity(req).UserID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// listCounts is the admin report. Filters: usuario (username), secao,
// grupo. export=csv|xlsx downloads the filtered rows.
func (r *Router) listCounts(w http.ResponseWriter, req *http.Request) {
	rows, err := r.Ledger.ListAllDetailed(req.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	q := req.URL.Query()
	rows = filterCounts(rows, q.Get("usuario"), q.Get("secao"), q.Get("grupo"))

	switch q.Get("export") {
	case "":
		respondJSON(w, http.StatusOK, rows)
	case "csv":
		opts := r.exportOptions(req)
		var buf bytes.Buffer
		if err := export.Counts(&buf, rows, opts); err != nil {
			respondErr(w, err)
			return
		}
		attachment(w, opts.ContentType(), "contagens.csv")
		w.Write(buf.Bytes())
	case "xlsx":
		data, err := export.CountsXLSX(rows)
		if err != nil {
			respondErr(w, err)
			return
		}
		attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "contagens.xlsx")
		w.Write(data)
	default:
		respondError(w, http.StatusBadRequest, "export must be csv or xlsx")
	}
}

func filterCounts(rows []models.CountWithProduct, usuario, secao, grupo string) []models.CountWithProduct {
	if usuario == "" && secao == "" && grupo == "" {
		return rows
	}
	out := make([]models.CountWithProduct, 0, len(rows))
	for _, c := range rows {
		if usuario != "" && !strings.EqualFold(c.Username, usuario) {
			continue
		}
		if secao != "" && c.Secao != secao {
			continue
		}
		if grupo != "" && c.Grupo != grupo {
			continue
		}
		out = append(out, c)
	}
	return out
}
