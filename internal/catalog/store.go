package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Keywords []string        `json:"keywords,omitempty" yaml:"keywords"`
	Unit     string          `json:"unit" yaml:"unit"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
}

// Store is read-only once the catalog has been loaded.
type Store interface {
	ListSortedByID(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Ping(ctx context.Context) error
}
