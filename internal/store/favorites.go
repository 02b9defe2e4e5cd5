package store

import (
	"sync"

	"github.com/adityabima03/YuhuKopi/internal/domain"
)

// FavoritesStore is a set of favorited product IDs.
type FavoritesStore struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewFavoritesStore() *FavoritesStore {
	return &FavoritesStore{ids: make(map[string]struct{})}
}

// Toggle flips membership of productID and reports the new state.
func (s *FavoritesStore) Toggle(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[productID]; ok {
		delete(s.ids, productID)
		return false
	}
	s.ids[productID] = struct{}{}
	return true
}

func (s *FavoritesStore) IsFavorite(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[productID]
	return ok
}

func (s *FavoritesStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Filter returns the favorited coffees of catalog in catalog order.
func (s *FavoritesStore) Filter(catalog []domain.Coffee) []domain.Coffee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Coffee, 0, len(s.ids))
	for _, c := range catalog {
		if _, ok := s.ids[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
