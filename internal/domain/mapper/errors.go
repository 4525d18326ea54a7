package mapper

import "errors"

// Sentinel kinds for resolution errors.
var (
	// ErrCatalogUnavailable reports an upstream catalog/mapping read
	// failure. Surfaced to the caller, never retried here.
	ErrCatalogUnavailable = errors.New("rating catalog unavailable")
)
