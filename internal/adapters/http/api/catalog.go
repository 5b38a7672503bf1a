// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/types"
)

// Imports are read fully into memory; catalogs are small documents.
const maxImportSize = 4 << 20

// CatalogHandler serves catalog browsing and configuration import/export.
type CatalogHandler struct {
	deps        Dependencies
	defaultLang types.Language
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies, defaultLang types.Language) *CatalogHandler {
	return &CatalogHandler{deps: deps, defaultLang: defaultLang}
}

// inspectorResponse omits credentials from the wire shape.
type inspectorResponse struct {
	ID           string           `json:"id"`
	DisplayName  string           `json:"displayName"`
	AllowedZones []types.Category `json:"allowedZoneTypes"`
}

// checklistItemResponse is a checklist item with its language-resolved name.
type checklistItemResponse struct {
	ID           string   `json:"id"`
	Number       int      `json:"number"`
	Name         string   `json:"name"`
	MaxScore     int      `json:"max_score"`
	Observations []string `json:"possible_observations,omitempty"`
}

// HandleInspectors handles GET /inspectors requests, active inspectors only.
func (h *CatalogHandler) HandleInspectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	active := h.deps.Catalog(r.Context()).ActiveInspectors()
	out := make([]inspectorResponse, len(active))
	for i, insp := range active {
		out[i] = inspectorResponse{
			ID:           insp.ID,
			DisplayName:  insp.DisplayName,
			AllowedZones: insp.AllowedZones,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleZones handles GET /zones?category=X requests.
func (h *CatalogHandler) HandleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	catalog := h.deps.Catalog(r.Context())

	if raw := r.URL.Query().Get("category"); raw != "" {
		cat := types.Category(raw)
		if !cat.Valid() {
			writeError(w, fmt.Errorf("%w: unknown category %q", ErrBadRequest, raw))
			return
		}
		writeJSON(w, http.StatusOK, catalog.ZonesFor(cat))
		return
	}
	writeJSON(w, http.StatusOK, catalog.Zones)
}

// HandleChecklist handles GET /checklist?category=X requests. Only the active
// items of the category are returned, ordered by number.
func (h *CatalogHandler) HandleChecklist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := r.URL.Query().Get("category")
	cat := types.Category(raw)
	if !cat.Valid() {
		writeError(w, fmt.Errorf("%w: unknown category %q", ErrBadRequest, raw))
		return
	}

	lang := langFrom(r, h.defaultLang)
	items := h.deps.Catalog(r.Context()).ItemsFor(cat)
	out := make([]checklistItemResponse, len(items))
	for i, item := range items {
		out[i] = checklistItemResponse{
			ID:           item.ID,
			Number:       item.Number,
			Name:         item.DisplayName(lang),
			MaxScore:     item.MaxScore,
			Observations: item.Observations,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleExport handles GET /config/export requests, the full catalog as a
// downloadable JSON document.
func (h *CatalogHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	data, err := h.deps.ExportCatalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="evround-config.json"`)
	_, _ = w.Write(data)
}

// HandleImport handles POST /config/import requests. The document replaces
// the whole catalog or is rejected as a unit.
func (h *CatalogHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", model.ErrImport, err))
		return
	}
	if err := h.deps.ImportCatalog(r.Context(), data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
