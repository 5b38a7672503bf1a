package repository

import (
	"context"
	"sync"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/pkg/metrics"
)

// In-memory CatalogStore implementation.
//
// Every mutation is copy-validate-swap: the change is applied to a clone,
// revalidated through the catalog constructor, and only then published.
// A failed mutation leaves the previous catalog fully in effect.

// MemoryCatalog guards the live catalog behind a RWMutex.
type MemoryCatalog struct {
	mu      sync.RWMutex
	catalog *model.Catalog
}

// NewMemoryCatalog constructs a catalog store seeded with the given catalog.
func NewMemoryCatalog(seed *model.Catalog) (*MemoryCatalog, error) {
	if seed == nil {
		return nil, ErrNilCatalog
	}
	return &MemoryCatalog{catalog: seed.Clone()}, nil
}

// Get implements CatalogStore.Get.
func (s *MemoryCatalog) Get(_ context.Context) *model.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Clone()
}

// Replace implements CatalogStore.Replace. The incoming catalog is
// revalidated before the swap, same as every other mutation path.
func (s *MemoryCatalog) Replace(_ context.Context, c *model.Catalog) error {
	if c == nil {
		return ErrNilCatalog
	}

	clone := c.Clone()
	validated, err := model.NewCatalog(clone.Inspectors, clone.Zones, clone.Checklists)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = validated
	s.mu.Unlock()

	metrics.RecordImportApplied()
	return nil
}

// UpsertInspector implements CatalogStore.UpsertInspector.
func (s *MemoryCatalog) UpsertInspector(ctx context.Context, insp model.Inspector) error {
	return s.mutate(func(c *model.Catalog) error {
		for i := range c.Inspectors {
			if c.Inspectors[i].ID == insp.ID {
				c.Inspectors[i] = insp
				return nil
			}
		}
		c.Inspectors = append(c.Inspectors, insp)
		return nil
	})
}

// RemoveInspector implements CatalogStore.RemoveInspector.
func (s *MemoryCatalog) RemoveInspector(ctx context.Context, id string) error {
	return s.mutate(func(c *model.Catalog) error {
		for i := range c.Inspectors {
			if c.Inspectors[i].ID == id {
				c.Inspectors = append(c.Inspectors[:i], c.Inspectors[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// UpsertZone implements CatalogStore.UpsertZone.
func (s *MemoryCatalog) UpsertZone(ctx context.Context, z model.Zone) error {
	return s.mutate(func(c *model.Catalog) error {
		for i := range c.Zones {
			if c.Zones[i].ID == z.ID {
				c.Zones[i] = z
				return nil
			}
		}
		c.Zones = append(c.Zones, z)
		return nil
	})
}

// RemoveZone implements CatalogStore.RemoveZone.
func (s *MemoryCatalog) RemoveZone(ctx context.Context, id string) error {
	return s.mutate(func(c *model.Catalog) error {
		for i := range c.Zones {
			if c.Zones[i].ID == id {
				c.Zones = append(c.Zones[:i], c.Zones[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// UpsertItem implements CatalogStore.UpsertItem.
func (s *MemoryCatalog) UpsertItem(ctx context.Context, item model.ChecklistItem) error {
	return s.mutate(func(c *model.Catalog) error {
		for i := range c.Checklists {
			if c.Checklists[i].ID == item.ID {
				c.Checklists[i] = item
				return nil
			}
		}
		c.Checklists = append(c.Checklists, item)
		return nil
	})
}

// RemoveItem implements CatalogStore.RemoveItem.
func (s *MemoryCatalog) RemoveItem(ctx context.Context, id string) error {
	return s.mutate(func(c *model.Catalog) error {
		for i := range c.Checklists {
			if c.Checklists[i].ID == id {
				c.Checklists = append(c.Checklists[:i], c.Checklists[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// mutate runs apply on a clone, revalidates it and swaps it in on success.
func (s *MemoryCatalog) mutate(apply func(*model.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.catalog.Clone()
	if err := apply(next); err != nil {
		return err
	}

	validated, err := model.NewCatalog(next.Inspectors, next.Zones, next.Checklists)
	if err != nil {
		return err
	}

	s.catalog = validated
	return nil
}
