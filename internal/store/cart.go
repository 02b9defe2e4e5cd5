package store

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

// CartStore holds the in-memory cart. Every method is synchronous and safe
// for concurrent use; reads always reflect the latest mutation.
type CartStore struct {
	mu     sync.RWMutex
	items  []domain.CartLineItem
	logger *slog.Logger
}

// NewCartStore returns an empty cart. A nil logger discards output.
func NewCartStore(logger *slog.Logger) *CartStore {
	if logger == nil {
		logger = applog.Discard()
	}
	return &CartStore{logger: logger}
}

func (s *CartStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of sel. A line for the same product and size gets
// its quantity bumped; otherwise a new line is appended with quantity 1.
func (s *CartStore) AddItem(sel domain.Selection) domain.CartLineItem {
	id := domain.LineItemID(sel.ProductID, sel.Size)

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity++
		s.logger.Debug("cart line incremented", slog.String("line_id", id), slog.Int("quantity", s.items[i].Quantity))
		return s.items[i]
	}

	line := domain.CartLineItem{
		ID:          id,
		ProductID:   sel.ProductID,
		Name:        sel.Name,
		Description: sel.Description,
		UnitPrice:   sel.UnitPrice,
		Size:        sel.Size,
		Quantity:    1,
		Image:       sel.Image,
	}
	s.items = append(s.items, line)
	s.logger.Debug("cart line added", slog.String("line_id", id))
	return line
}

// RemoveItem deletes the line with id. Unknown ids are ignored.
func (s *CartStore) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *CartStore) removeLocked(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.logger.Debug("cart line removed", slog.String("line_id", id))
}

// UpdateQuantity sets the quantity of line id to n. n <= 0 removes the line.
func (s *CartStore) UpdateQuantity(id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		s.removeLocked(id)
		return
	}
	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity = n
	}
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.logger.Debug("cart cleared")
}

// Items returns a copy of the lines in display order.
func (s *CartStore) Items() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len is the number of distinct lines.
func (s *CartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Total sums unit price times quantity without intermediate rounding.
// Lines with an unparseable price contribute nothing.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, li := range s.items {
		total = total.Add(li.LineTotal())
	}
	return total
}

// FormatTotal is Total rounded to cents for display.
func (s *CartStore) FormatTotal() string {
	return domain.FormatMoney(s.Total())
}

// ItemCount is the sum of quantities, used for the cart badge.
func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, li := range s.items {
		n += li.Quantity
	}
	return n
}
