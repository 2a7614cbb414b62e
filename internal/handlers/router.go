package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/buildinfo"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/ingest"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/middleware"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/catalog"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/export"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/ledger"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/users"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/utils"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/websocket"
)

// Deps are the services the HTTP layer is wired to
type Deps struct {
	Catalog *catalog.Service
	Ledger  *ledger.Service
	Users   *users.Service
	Formats *ingest.Registry
	Hub     *websocket.Hub
	Redis   *redis.Client

	JWTSecret      string
	UploadMaxBytes int64
	ExportEncoding string
	// FrontendDir is served at / when set
	FrontendDir string
}

// Router wraps the mux router and the services
type Router struct {
	*mux.Router
	Deps
	dedup *utils.Deduplicator
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(d Deps) *Router {
	if d.Formats == nil {
		d.Formats = ingest.NewDefaultRegistry()
	}
	if d.UploadMaxBytes <= 0 {
		d.UploadMaxBytes = 20 << 20
	}
	r := &Router{
		Router: mux.NewRouter(),
		Deps:   d,
		dedup:  utils.NewDeduplicator(d.Redis, 10*time.Minute),
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.Handle("/login", middleware.LoginRateLimiter(d.Redis)(http.HandlerFunc(r.login))).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/setup", r.setupStatus).Methods("GET")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	authn := middleware.Auth(d.JWTSecret)
	r.Handle("/ws", authn(http.HandlerFunc(r.serveWs)))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authn)
	api.HandleFunc("/status", r.getStatus).Methods("GET")
	api.HandleFunc("/scan", r.handleScan).Methods("POST")

	// Products
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.addProduct).Methods("POST")
	api.HandleFunc("/products/choices", r.productChoices).Methods("GET")
	api.HandleFunc("/products/labels", r.productLabels).Methods("POST")
	api.HandleFunc("/products/{ean}", r.getProduct).Methods("GET")
	api.Handle("/products/{ean}", admin(r.upsertProduct)).Methods("PUT")

	// Counts
	api.HandleFunc("/counts", r.registerCount).Methods("POST")
	api.HandleFunc("/counts/mine", r.myCounts).Methods("GET")
	api.HandleFunc("/counts/total/{ean}", r.countTotal).Methods("GET")
	api.Handle("/counts", admin(r.listCounts)).Methods("GET")
	api.Handle("/counts", admin(r.deleteAllCounts)).Methods("DELETE")
	api.Handle("/counts/{id:[0-9]+}", admin(r.updateCount)).Methods("PUT")
	api.Handle("/counts/{id:[0-9]+}", admin(r.deleteCount)).Methods("DELETE")

	// Catalog reconciliation and import
	api.HandleFunc("/catalog/formats", r.listFormats).Methods("GET")
	api.HandleFunc("/catalog/reconcile", r.reconcileCatalog).Methods("POST")
	api.Handle("/catalog/import", admin(r.importCatalog)).Methods("POST")
	api.Handle("/catalog/imports", admin(r.importHistory)).Methods("GET")

	// Audit
	api.Handle("/audit", admin(r.runAudit)).Methods("POST")

	// Users
	api.HandleFunc("/users", r.listUsers).Methods("GET")
	api.Handle("/users/{username}", admin(r.deleteUser)).Methods("DELETE")
	api.Handle("/users/{uid}/counts", admin(r.deleteUserCounts)).Methods("DELETE")

	if d.FrontendDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.FrontendDir)))
	}

	return r
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getStatus returns build info and the live dashboard count
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	resp := map[string]interface{}{
		"status": "running",
		"build":  buildinfo.Current(),
	}
	if r.Hub != nil {
		resp["ws_clients"] = r.Hub.Clients()
	}
	respondJSON(w, http.StatusOK, resp)
}

func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	if r.Hub == nil {
		respondError(w, http.StatusServiceUnavailable, "Live feed disabled")
		return
	}
	id, _ := middleware.IdentityFrom(req.Context())
	websocket.ServeWs(r.Hub, w, req, id.Username)
}

func (r *Router) exportOptions(req *http.Request) export.Options {
	opts := export.Options{Encoding: r.ExportEncoding}
	if enc := req.URL.Query().Get("encoding"); enc == export.EncodingUTF8 || enc == export.EncodingLatin1 {
		opts.Encoding = enc
	}
	opts.Display = req.URL.Query().Get("display") == "true"
	return opts
}

// identity returns the caller; routes under /api always carry one.
func identity(req *http.Request) middleware.Identity {
	id, _ := middleware.IdentityFrom(req.Context())
	return id
}

// readUpload returns the multipart "file" field, capped at UploadMaxBytes.
func (r *Router) readUpload(w http.ResponseWriter, req *http.Request) ([]byte, string, error) {
	req.Body = http.MaxBytesReader(w, req.Body, r.UploadMaxBytes)
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", apperr.Validation("file", "larger than %d bytes", tooBig.Limit)
		}
		return nil, "", apperr.Validation("file", "invalid multipart form: %v", err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, "", apperr.Validation("file", "is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", apperr.Parse("upload", err)
	}
	return data, header.Filename, nil
}

// parseUpload reads the upload and runs it through the adapter named by
// ?format=, defaulting to the generic layout.
func (r *Router) parseUpload(w http.ResponseWriter, req *http.Request, fallback string) (string, string, []models.ReportRow, error) {
	data, name, err := r.readUpload(w, req)
	if err != nil {
		return "", "", nil, err
	}
	format := strings.TrimSpace(req.URL.Query().Get("format"))
	if format == "" {
		format = req.FormValue("format")
	}
	if format == "" {
		format = fallback
	}
	rows, err := r.Formats.Parse(format, data)
	if err != nil {
		return "", "", nil, err
	}
	return format, name, rows, nil
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondErr maps a service error onto the API error envelope. Storage
// failures are logged here and reported without driver details.
func respondErr(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	body := map[string]interface{}{"error": err.Error()}

	var missing *apperr.MissingColumnsError
	var parseErr *ingest.ParseError
	var invalid *apperr.ValidationError
	switch {
	case errors.As(err, &missing):
		body["details"] = map[string]interface{}{
			"missing":  missing.Missing,
			"expected": missing.Expected,
			"found":    missing.Found,
		}
	case errors.As(err, &parseErr):
		body["details"] = map[string]interface{}{"format": parseErr.Format, "line": parseErr.Line}
	case errors.As(err, &invalid):
		body["details"] = map[string]string{"field": invalid.Field, "reason": invalid.Reason}
	case status == http.StatusServiceUnavailable:
		log.Printf("❌ Storage error: %v", err)
		body["error"] = apperr.ErrStorage.Error()
	case status == http.StatusInternalServerError:
		log.Printf("❌ Unexpected error: %v", err)
	}
	respondJSON(w, status, body)
}
