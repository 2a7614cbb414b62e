package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/ean"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// ScanRequest represents the payload from a scanner
type ScanRequest struct {
	Barcode string `json:"barcode"`
}

// ScanResponse is what the counting screen shows after a scan
type ScanResponse struct {
	EAN     string          `json:"ean"`
	Found   bool            `json:"found"`
	Product *models.Product `json:"product,omitempty"`
	// Total counted by all users so far
	Total decimal.Decimal `json:"total"`
}

// handleScan normalizes the scanned code and looks the product up. Unknown
// products answer found:false so the client can offer to register them.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Barcode) == "" {
		respondError(w, http.StatusBadRequest, "Empty barcode")
		return
	}

	product, err := r.Catalog.Get(req.Context(), body.Barcode)
	if err != nil {
		respondErr(w, err)
		return
	}
	total, err := r.Ledger.TotalForProduct(req.Context(), body.Barcode)
	if err != nil {
		respondErr(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ScanResponse{
		EAN:     ean.Normalize(body.Barcode),
		Found:   product != nil,
		Product: product,
		Total:   total,
	})
}

func muxVar(req *http.Request, name string) string {
	return mux.Vars(req)[name]
}
