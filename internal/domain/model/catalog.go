// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mkabbani/evround/internal/domain/types"
)

// Inspector is a person allowed to run inspections.
type Inspector struct {
	ID           string           `json:"id"`
	DisplayName  string           `json:"displayName"`
	Username     string           `json:"username"`
	PasswordHash string           `json:"passwordHash,omitempty"` // placeholder, never verified
	AllowedZones []types.Category `json:"allowedZoneTypes"`
	IsActive     bool             `json:"isActive"`
}

// Zone is a physical area subject to inspection.
type Zone struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category types.Category `json:"type_code"`
}

// ChecklistItem is one scored criterion of a category's checklist.
type ChecklistItem struct {
	ID           string         `json:"id"`
	Number       int            `json:"number"`
	Name         string         `json:"name"`
	NameEN       string         `json:"name_en,omitempty"`
	MaxScore     int            `json:"max_score"`
	Category     types.Category `json:"area_type"`
	IsActive     bool           `json:"isActive"`
	Observations []string       `json:"possible_observations,omitempty"`
}

// DisplayName returns the item name for the requested language, falling back
// to the Arabic name when no English form exists.
func (i ChecklistItem) DisplayName(lang types.Language) string {
	if lang == types.English && i.NameEN != "" {
		return i.NameEN
	}
	return i.Name
}

// Catalog is the full configuration: inspectors, zones and checklist
// definitions. Import replaces a catalog atomically; there is no partial merge.
type Catalog struct {
	Inspectors []Inspector     `json:"inspectors"`
	Zones      []Zone          `json:"zones"`
	Checklists []ChecklistItem `json:"checklists"`

	// byCategory holds active items sorted by Number, built once per catalog
	// instead of rescanning the item list on every session.
	byCategory map[types.Category][]ChecklistItem `json:"-"`
}

// catalogDoc mirrors Catalog for import parsing. Pointer slices distinguish a
// missing collection from an empty one.
type catalogDoc struct {
	Inspectors *[]Inspector     `json:"inspectors"`
	Zones      *[]Zone          `json:"zones"`
	Checklists *[]ChecklistItem `json:"checklists"`
}

// ParseCatalog decodes and validates a configuration document. Any failure
// is wrapped in ErrImport so callers can surface a single import-error
// outcome; the caller's current catalog is never touched.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImport, err)
	}
	switch {
	case doc.Inspectors == nil:
		return nil, fmt.Errorf("%w: missing inspectors", ErrImport)
	case doc.Zones == nil:
		return nil, fmt.Errorf("%w: missing zones", ErrImport)
	case doc.Checklists == nil:
		return nil, fmt.Errorf("%w: missing checklists", ErrImport)
	}

	c := &Catalog{
		Inspectors: *doc.Inspectors,
		Zones:      *doc.Zones,
		Checklists: *doc.Checklists,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImport, err)
	}
	c.buildIndex()
	return c, nil
}

// NewCatalog validates the given collections and builds the category index.
func NewCatalog(inspectors []Inspector, zones []Zone, checklists []ChecklistItem) (*Catalog, error) {
	c := &Catalog{Inspectors: inspectors, Zones: zones, Checklists: checklists}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.buildIndex()
	return c, nil
}

// Validate enforces the catalog invariants:
// categories are members of the enumeration, max scores are non-negative and
// item numbers are unique among active items of a category.
func (c *Catalog) Validate() error {
	for _, insp := range c.Inspectors {
		if insp.ID == "" {
			return fmt.Errorf("%w: inspector with empty id", ErrInvalidCatalog)
		}
		for _, cat := range insp.AllowedZones {
			if !cat.Valid() {
				return fmt.Errorf("%w: inspector %s allows unknown category %q", ErrInvalidCatalog, insp.ID, cat)
			}
		}
	}
	for _, z := range c.Zones {
		if z.ID == "" {
			return fmt.Errorf("%w: zone with empty id", ErrInvalidCatalog)
		}
		if !z.Category.Valid() {
			return fmt.Errorf("%w: zone %s has unknown category %q", ErrInvalidCatalog, z.ID, z.Category)
		}
	}
	seen := make(map[types.Category]map[int]string)
	for _, item := range c.Checklists {
		if item.ID == "" {
			return fmt.Errorf("%w: checklist item with empty id", ErrInvalidCatalog)
		}
		if !item.Category.Valid() {
			return fmt.Errorf("%w: item %s has unknown category %q", ErrInvalidCatalog, item.ID, item.Category)
		}
		if item.MaxScore < 0 {
			return fmt.Errorf("%w: item %s has negative max score", ErrInvalidCatalog, item.ID)
		}
		if !item.IsActive {
			continue
		}
		if seen[item.Category] == nil {
			seen[item.Category] = make(map[int]string)
		}
		if other, dup := seen[item.Category][item.Number]; dup {
			return fmt.Errorf("%w: items %s and %s share number %d in category %s",
				ErrInvalidCatalog, other, item.ID, item.Number, item.Category)
		}
		seen[item.Category][item.Number] = item.ID
	}
	return nil
}

func (c *Catalog) buildIndex() {
	idx := make(map[types.Category][]ChecklistItem)
	for _, item := range c.Checklists {
		if !item.IsActive {
			continue
		}
		idx[item.Category] = append(idx[item.Category], item)
	}
	for cat := range idx {
		items := idx[cat]
		sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })
	}
	c.byCategory = idx
}

// ItemsFor returns the active checklist items of a category, ordered by Number.
// The returned slice is a copy.
func (c *Catalog) ItemsFor(cat types.Category) []ChecklistItem {
	if c.byCategory == nil {
		c.buildIndex()
	}
	items := c.byCategory[cat]
	out := make([]ChecklistItem, len(items))
	copy(out, items)
	return out
}

// ItemByID looks up a checklist item by id across all categories.
func (c *Catalog) ItemByID(id string) (ChecklistItem, bool) {
	for _, item := range c.Checklists {
		if item.ID == id {
			return item, true
		}
	}
	return ChecklistItem{}, false
}

// ActiveInspectors returns the inspectors selectable for a new session.
func (c *Catalog) ActiveInspectors() []Inspector {
	out := make([]Inspector, 0, len(c.Inspectors))
	for _, insp := range c.Inspectors {
		if insp.IsActive {
			out = append(out, insp)
		}
	}
	return out
}

// InspectorByID returns the inspector with the given id.
func (c *Catalog) InspectorByID(id string) (Inspector, bool) {
	for _, insp := range c.Inspectors {
		if insp.ID == id {
			return insp, true
		}
	}
	return Inspector{}, false
}

// ZoneByID returns the zone with the given id.
func (c *Catalog) ZoneByID(id string) (Zone, bool) {
	for _, z := range c.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// ZonesFor returns the zones of a category in catalog order.
func (c *Catalog) ZonesFor(cat types.Category) []Zone {
	out := make([]Zone, 0)
	for _, z := range c.Zones {
		if z.Category == cat {
			out = append(out, z)
		}
	}
	return out
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Inspectors: make([]Inspector, len(c.Inspectors)),
		Zones:      make([]Zone, len(c.Zones)),
		Checklists: make([]ChecklistItem, len(c.Checklists)),
	}
	for i, insp := range c.Inspectors {
		insp.AllowedZones = append([]types.Category(nil), insp.AllowedZones...)
		out.Inspectors[i] = insp
	}
	copy(out.Zones, c.Zones)
	for i, item := range c.Checklists {
		item.Observations = append([]string(nil), item.Observations...)
		out.Checklists[i] = item
	}
	out.buildIndex()
	return out
}

// Export serializes the catalog for download. Collection order is preserved,
// so an immediate re-import reproduces an equal catalog.
func (c *Catalog) Export() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
