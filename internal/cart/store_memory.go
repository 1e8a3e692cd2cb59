package cart

import (
	"context"
	"maps"
	"sync"
)

// entry gets its id on the first successful add; until then it reads as a
// cart that does not exist.
type entry struct {
	mu    sync.Mutex
	id    string
	lines map[string]int
}

// MemStore guards each user's cart with its own mutex; the outer lock only
// protects the user index.
type MemStore struct {
	mu    sync.Mutex
	carts map[string]*entry
}

func NewMemStore() *MemStore {
	return &MemStore{carts: map[string]*entry{}}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) lookup(userID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[userID]
}

func (s *MemStore) getOrCreate(userID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[userID]
	if !ok {
		e = &entry{lines: map[string]int{}}
		s.carts[userID] = e
	}
	return e
}

func (s *MemStore) Add(ctx context.Context, userID string, items []Item) (Cart, error) {
	if err := checkItems(items); err != nil {
		return Cart{}, err
	}

	e := s.getOrCreate(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := addLines(e.lines, items)
	if err != nil {
		return Cart{}, err
	}
	if e.id == "" {
		e.id = newCartID()
	}
	e.lines = next

	return e.snapshot(userID), nil
}

func (s *MemStore) Remove(ctx context.Context, userID string, items []Item) (Cart, error) {
	if err := checkItems(items); err != nil {
		return Cart{}, err
	}

	e := s.lookup(userID)
	if e == nil {
		return emptyCart(userID), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, it := range items {
		cur, ok := e.lines[it.ProductID]
		if !ok {
			continue
		}
		if left := cur - it.Quantity; left > 0 {
			e.lines[it.ProductID] = left
		} else {
			delete(e.lines, it.ProductID)
		}
	}

	return e.snapshot(userID), nil
}

func (s *MemStore) Get(ctx context.Context, userID string) (Cart, error) {
	e := s.lookup(userID)
	if e == nil {
		return emptyCart(userID), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(userID), nil
}

// snapshot must be called with e.mu held.
func (e *entry) snapshot(userID string) Cart {
	return Cart{ID: e.id, UserID: userID, Lines: maps.Clone(e.lines)}
}
