package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrEmptyCatalog   = errors.New("empty catalog")
	ErrDuplicateEntry = errors.New("duplicate catalog entry")
)
