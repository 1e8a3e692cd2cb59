// Package cart keeps per-user shopping carts. A cart is created on its
// owner's first add and never holds a line with a quantity below one.
package cart

import (
	"context"
	"errors"
	"maps"
	"math"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrBadQuantity      = errors.New("quantity must be positive")
	ErrQuantityOverflow = errors.New("quantity overflow")
)

type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is a snapshot. ID is empty until the cart has been created.
type Cart struct {
	ID     string
	UserID string
	Lines  map[string]int
}

func (c Cart) Quantity(productID string) int { return c.Lines[productID] }

// Items returns the lines sorted by product id.
func (c Cart) Items() []Item {
	out := make([]Item, 0, len(c.Lines))
	for pid, qty := range c.Lines {
		out = append(out, Item{ProductID: pid, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (c Cart) TotalItems() int {
	n := 0
	for _, qty := range c.Lines {
		n += qty
	}
	return n
}

// Store applies every item of one call as a unit: either all of them are
// applied or the call fails without changing the cart.
type Store interface {
	Add(ctx context.Context, userID string, items []Item) (Cart, error)
	Remove(ctx context.Context, userID string, items []Item) (Cart, error)
	Get(ctx context.Context, userID string) (Cart, error)
	Ping(ctx context.Context) error
}

func checkItems(items []Item) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			return ErrBadQuantity
		}
	}
	return nil
}

func newCartID() string {
	return "c_" + uuid.NewString()
}

func emptyCart(userID string) Cart {
	return Cart{UserID: userID, Lines: map[string]int{}}
}

// addLines returns a copy of lines with items added. lines is not modified,
// so a rejected call leaves the cart untouched.
func addLines(lines map[string]int, items []Item) (map[string]int, error) {
	next := maps.Clone(lines)
	if next == nil {
		next = map[string]int{}
	}
	for _, it := range items {
		cur := next[it.ProductID]
		if cur > math.MaxInt-it.Quantity {
			return nil, ErrQuantityOverflow
		}
		next[it.ProductID] = cur + it.Quantity
	}
	return next, nil
}
