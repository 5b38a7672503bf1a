// Package seed ships the default configuration catalog. It is used when no
// catalog file is configured, so a fresh deployment starts with the full
// hospital zone and checklist setup instead of an empty one.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/mkabbani/evround/internal/domain/model"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog parses the embedded default catalog. The document is validated on
// every call and each caller gets its own copy.
func Catalog() (*model.Catalog, error) {
	c, err := model.ParseCatalog(catalogJSON)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}
