package repository

import (
	"context"

	"github.com/adityabima03/YuhuKopi/internal/domain"
)

// OrderFilter selects one page of orders, newest first.
type OrderFilter struct {
	Page    int
	PerPage int
}

// Limit and Offset translate the filter into query bounds, defaulting to
// 20 per page.
func (f OrderFilter) Limit() int {
	if f.PerPage <= 0 {
		return 20
	}
	return f.PerPage
}

func (f OrderFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// CatalogRepository serves the coffee menu.
type CatalogRepository interface {
	// List returns every coffee in menu order.
	List(ctx context.Context) ([]domain.Coffee, error)

	// GetByID returns one coffee or an ErrNotFound AppError.
	GetByID(ctx context.Context, id string) (*domain.Coffee, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Create stores a new order with its items atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID returns an order including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns a page of orders and the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
