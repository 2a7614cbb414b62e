package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/catalog"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/printer"
)

func (r *Router) getProduct(w http.ResponseWriter, req *http.Request) {
	p, err := r.Catalog.Get(req.Context(), muxVar(req, "ean"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// addProduct inserts a product the counter found on the shelf but not in the
// catalog. An existing EAN is reported, never overwritten.
func (r *Router) addProduct(w http.ResponseWriter, req *http.Request) {
	var in catalog.NewProduct
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, p, err := r.Catalog.Add(req.Context(), identity(req).Username, in)
	if err != nil {
		respondErr(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]interface{}{"created": created, "product": p})
}

func (r *Router) upsertProduct(w http.ResponseWriter, req *http.Request) {
	var p models.Product
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	p.EAN = muxVar(req, "ean")

	changed, err := r.Catalog.Upsert(req.Context(), identity(req).Username, p)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	products, err := r.Catalog.ListAll(req.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (r *Router) productChoices(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.Catalog.Choices(req.Context()))
}

// LabelsRequest lists the EANs to print and an optional sheet layout
type LabelsRequest struct {
	EANs   []string            `json:"eans"`
	Layout printer.LabelConfig `json:"layout"`
}

// productLabels prints shelf labels with an EAN QR code per product.
// Codes missing from the catalog are skipped and reported in a header.
func (r *Router) productLabels(w http.ResponseWriter, req *http.Request) {
	var body LabelsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(body.EANs) == 0 {
		respondError(w, http.StatusBadRequest, "eans is required")
		return
	}

	products := make([]models.Product, 0, len(body.EANs))
	skipped := 0
	for _, code := range body.EANs {
		p, err := r.Catalog.Get(req.Context(), code)
		if err != nil {
			respondErr(w, err)
			return
		}
		if p == nil {
			skipped++
			continue
		}
		products = append(products, *p)
	}
	if len(products) == 0 {
		respondError(w, http.StatusNotFound, "None of the products exist")
		return
	}

	pdfBytes, err := printer.GenerateShelfLabelsPDF(products, body.Layout)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to generate PDF: "+err.Error())
		return
	}

	attachment(w, "application/pdf", "etiquetas.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Header().Set("X-Labels-Skipped", strconv.Itoa(skipped))
	w.Write(pdfBytes)
}
