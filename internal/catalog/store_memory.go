package catalog

import (
	"context"
	"slices"
	"sync"
)

// MemStore keeps products in insertion order. Ids come from a counter that
// only ever increments, so a removed id is never handed out again.
type MemStore struct {
	mu       sync.RWMutex
	idx      int64
	products []Product
}

func NewMemStore() *MemStore {
	return &MemStore{products: make([]Product, 0, seedCount)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) Create(ctx context.Context, f Fields) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idx++
	p := f.product(s.idx)
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Retrieve(ctx context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	return s.products[i], nil
}

func (s *MemStore) Update(ctx context.Context, id int64, f Fields) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}

	s.products[i] = f.product(id)
	return s.products[i], nil
}

func (s *MemStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// caller holds s.mu
func (s *MemStore) indexOf(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
