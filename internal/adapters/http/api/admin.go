// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mkabbani/evround/internal/domain/model"
)

// AdminHandler serves catalog mutations. Upserts without an id get one
// generated, so the same endpoint covers create and update.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleInspectors handles POST (upsert) and DELETE /admin/inspectors?id=X.
func (h *AdminHandler) HandleInspectors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var insp model.Inspector
		if err := decode(r, &insp); err != nil {
			writeError(w, err)
			return
		}
		if insp.ID == "" {
			insp.ID = uuid.NewString()
		}
		if err := h.deps.CatalogStore().UpsertInspector(r.Context(), insp); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, insp)

	case http.MethodDelete:
		h.remove(w, r, h.deps.CatalogStore().RemoveInspector)

	default:
		http.NotFound(w, r)
	}
}

// HandleZones handles POST (upsert) and DELETE /admin/zones?id=X.
func (h *AdminHandler) HandleZones(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var z model.Zone
		if err := decode(r, &z); err != nil {
			writeError(w, err)
			return
		}
		if z.ID == "" {
			z.ID = uuid.NewString()
		}
		if err := h.deps.CatalogStore().UpsertZone(r.Context(), z); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, z)

	case http.MethodDelete:
		h.remove(w, r, h.deps.CatalogStore().RemoveZone)

	default:
		http.NotFound(w, r)
	}
}

// HandleItems handles POST (upsert) and DELETE /admin/items?id=X.
func (h *AdminHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var item model.ChecklistItem
		if err := decode(r, &item); err != nil {
			writeError(w, err)
			return
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if err := h.deps.CatalogStore().UpsertItem(r.Context(), item); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodDelete:
		h.remove(w, r, h.deps.CatalogStore().RemoveItem)

	default:
		http.NotFound(w, r)
	}
}

func (h *AdminHandler) remove(w http.ResponseWriter, r *http.Request, rm func(ctx context.Context, id string) error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, fmt.Errorf("%w: missing id", ErrBadRequest))
		return
	}
	if err := rm(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
