// Package repository defines the history and catalog stores and their errors.
package repository

import (
	"context"

	"github.com/mkabbani/evround/internal/domain/model"
)

// HistoryStore provides access to the append-only inspection history.
type HistoryStore interface {
	// Append adds a record to the front of history, newest first.
	Append(ctx context.Context, rec model.InspectionRecord) error

	// List returns all records, newest first.
	List(ctx context.Context) ([]model.InspectionRecord, error)

	// Get returns one record by reference id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.InspectionRecord, error)

	// Count returns the number of records in history.
	Count(ctx context.Context) int
}

// CatalogStore provides access to the live configuration catalog.
// Mutations validate against the catalog invariants and reject rather than
// apply a broken state; readers always see a consistent catalog.
type CatalogStore interface {
	// Get returns a snapshot of the current catalog. The snapshot is
	// independent of later mutations.
	Get(ctx context.Context) *model.Catalog

	// Replace swaps in a whole new catalog atomically. Used by import.
	Replace(ctx context.Context, c *model.Catalog) error

	// UpsertInspector adds or updates an inspector by id.
	UpsertInspector(ctx context.Context, insp model.Inspector) error

	// RemoveInspector deletes an inspector by id.
	// Returns ErrNotFound if the id is unknown.
	RemoveInspector(ctx context.Context, id string) error

	// UpsertZone adds or updates a zone by id.
	UpsertZone(ctx context.Context, z model.Zone) error

	// RemoveZone deletes a zone by id.
	// Returns ErrNotFound if the id is unknown.
	RemoveZone(ctx context.Context, id string) error

	// UpsertItem adds or updates a checklist item by id.
	UpsertItem(ctx context.Context, item model.ChecklistItem) error

	// RemoveItem deletes a checklist item by id.
	// Returns ErrNotFound if the id is unknown.
	RemoveItem(ctx context.Context, id string) error
}
