// Package shop validates search and cart requests and routes them to the
// matcher, the catalog and the cart store.
package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"BuildSupply/internal/cart"
	"BuildSupply/internal/catalog"
	"BuildSupply/internal/search"
)

const (
	opAdd    = "add"
	opRemove = "remove"
)

type Service struct {
	Catalog catalog.Store
	Carts   cart.Store
	Matcher *search.Matcher
	Log     *zap.Logger
	Metrics *Metrics
}

type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	UserID     string          `json:"user_id"`
	CartID     string          `json:"cart_id,omitempty"`
	Items      []CartLine      `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Search returns one result per query, in order.
func (s *Service) Search(ctx context.Context, queries []string) ([]search.Result, error) {
	if len(queries) == 0 {
		return nil, &ValidationError{Field: "queries", Reason: "at least one query required"}
	}

	products, err := s.Catalog.ListSortedByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	results := s.Matcher.MatchAll(queries, products)
	for _, r := range results {
		s.Metrics.searched(r.Matched)
	}
	return results, nil
}

func (s *Service) SearchOne(ctx context.Context, query string) (search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return search.Result{}, &ValidationError{Field: "query", Reason: "must not be empty"}
	}

	results, err := s.Search(ctx, []string{query})
	if err != nil {
		return search.Result{}, err
	}
	return results[0], nil
}

// AddToCart validates every item before touching the cart store.
func (s *Service) AddToCart(ctx context.Context, userID string, items []cart.Item) (CartView, error) {
	return s.mutate(ctx, opAdd, userID, items, s.Carts.Add)
}

// RemoveFromCart checks that products exist but not that they are in the cart.
func (s *Service) RemoveFromCart(ctx context.Context, userID string, items []cart.Item) (CartView, error) {
	return s.mutate(ctx, opRemove, userID, items, s.Carts.Remove)
}

func (s *Service) Cart(ctx context.Context, userID string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CartView{}, &ValidationError{Field: "user_id", Reason: "required"}
	}

	c, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return CartView{}, fmt.Errorf("get cart: %w", err)
	}
	return s.view(ctx, c)
}

type mutation func(ctx context.Context, userID string, items []cart.Item) (cart.Cart, error)

func (s *Service) mutate(ctx context.Context, op, userID string, items []cart.Item, apply mutation) (CartView, error) {
	userID = strings.TrimSpace(userID)

	normalized, err := s.validate(ctx, userID, items)
	if err != nil {
		s.Metrics.mutated(op, "rejected")
		return CartView{}, err
	}

	c, err := apply(ctx, userID, normalized)
	if err != nil {
		s.Metrics.mutated(op, "failed")
		return CartView{}, fmt.Errorf("cart %s: %w", op, err)
	}

	s.Metrics.mutated(op, "applied")
	return s.view(ctx, c)
}

func (s *Service) validate(ctx context.Context, userID string, items []cart.Item) ([]cart.Item, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "required"}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "at least one item required"}
	}

	out := make([]cart.Item, 0, len(items))
	for i, it := range items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Reason: "required"}
		}
		if it.Quantity <= 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be a positive integer"}
		}
		out = append(out, cart.Item{ProductID: pid, Quantity: it.Quantity})
	}

	for i, it := range out {
		_, ok, err := s.Catalog.Get(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("catalog get %q: %w", it.ProductID, err)
		}
		if !ok {
			return nil, &NotFoundError{Field: fmt.Sprintf("items[%d].product_id", i), ProductID: it.ProductID}
		}
	}
	return out, nil
}

func (s *Service) view(ctx context.Context, c cart.Cart) (CartView, error) {
	v := CartView{
		UserID:     c.UserID,
		CartID:     c.ID,
		Items:      make([]CartLine, 0, len(c.Lines)),
		TotalItems: c.TotalItems(),
		Subtotal:   decimal.Zero,
	}

	for _, it := range c.Items() {
		line := CartLine{ProductID: it.ProductID, Quantity: it.Quantity}

		p, ok, err := s.Catalog.Get(ctx, it.ProductID)
		if err != nil {
			return CartView{}, fmt.Errorf("catalog get %q: %w", it.ProductID, err)
		}
		if ok {
			line.Name = p.Name
			line.Unit = p.Unit
			line.UnitPrice = p.Price
			line.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			v.Subtotal = v.Subtotal.Add(line.LineTotal)
		} else if s.Log != nil {
			s.Log.Warn("cart references product missing from catalog",
				zap.String("user_id", c.UserID),
				zap.String("product_id", it.ProductID),
			)
		}

		v.Items = append(v.Items, line)
	}
	return v, nil
}
