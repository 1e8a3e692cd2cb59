package shop

import (
	"fmt"

	"BuildSupply/internal/catalog"
)

// ValidationError rejects a request before anything is changed. Field names
// the offending input, e.g. "items[2].quantity".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a product id that is not in the catalog. It matches
// catalog.ErrNotFound under errors.Is.
type NotFoundError struct {
	Field     string
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: product %q not found", e.Field, e.ProductID)
}

func (e *NotFoundError) Unwrap() error { return catalog.ErrNotFound }
