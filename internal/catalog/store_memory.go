package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type MemStore struct {
	m      map[string]Product
	sorted []Product
}

// NewMemStore validates products and indexes them by id. The store never
// changes afterwards, so reads take no lock.
func NewMemStore(products []Product) (*MemStore, error) {
	s := &MemStore{m: make(map[string]Product, len(products))}

	for i, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("product %d: empty id", i)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %q: empty name", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q: negative price %s", p.ID, p.Price)
		}
		if _, dup := s.m[p.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id", p.ID)
		}
		p.Keywords = append([]string(nil), p.Keywords...)
		s.m[p.ID] = p
	}

	s.sorted = make([]Product, 0, len(s.m))
	for _, p := range s.m {
		s.sorted = append(s.sorted, p)
	}
	sort.Slice(s.sorted, func(i, j int) bool { return s.sorted[i].ID < s.sorted[j].ID })

	return s, nil
}

// NewStore returns the built-in building-materials catalog.
func NewStore() *MemStore {
	s, err := NewMemStore(DefaultProducts())
	if err != nil {
		panic(err)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(s.sorted))
	copy(out, s.sorted)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	p, ok := s.m[id]
	return p, ok, nil
}
