package model

import "errors"

// Sentinel error kinds for this package. Callers match with errors.Is.
var (
	// ErrImport marks a rejected configuration import; the previous catalog
	// stays in effect.
	ErrImport = errors.New("configuration import rejected")

	// ErrInvalidCatalog marks a catalog that violates a structural invariant.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
