// Package ingest turns uploaded product and stock reports into ReportRows.
// Each vendor layout is an Adapter; reconciliation and audit only ever see
// the canonical rows.
package ingest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
)

// Adapter parses one report layout.
type Adapter interface {
	Format() string
	Parse(data []byte) ([]models.ReportRow, error)
}

// Registry holds the report adapters known to the server
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// Register adds an adapter under its format name
func (r *Registry) Register(adapter Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	format := adapter.Format()
	if format == "" {
		return fmt.Errorf("adapter format cannot be empty")
	}

	if _, exists := r.adapters[format]; exists {
		return fmt.Errorf("adapter %s is already registered", format)
	}

	r.adapters[format] = adapter
	return nil
}

// Get returns the adapter for format
func (r *Registry) Get(format string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[format]
	if !exists {
		return nil, apperr.Validation("format", "unknown report format %q (available: %v)", format, r.formatsLocked())
	}

	return adapter, nil
}

// Formats lists the registered format names, sorted
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatsLocked()
}

func (r *Registry) formatsLocked() []string {
	formats := make([]string, 0, len(r.adapters))
	for f := range r.adapters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Parse looks up format and parses data with it.
func (r *Registry) Parse(format string, data []byte) ([]models.ReportRow, error) {
	adapter, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return adapter.Parse(data)
}

// NewDefaultRegistry returns a registry with every built-in layout.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []Adapter{GenericAdapter{}, VendorAdapter{}, VendorAdapter{WithStock: true}} {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}
