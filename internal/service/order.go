package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/repository"
	apperrors "github.com/adityabima03/YuhuKopi/pkg/errors"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
	"github.com/adityabima03/YuhuKopi/pkg/pagination"
	"github.com/adityabima03/YuhuKopi/pkg/validator"
)

// OrderEventPublisher announces new orders.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

// OrderService implements order placement and lookup.
type OrderService struct {
	repo   repository.OrderRepository
	events OrderEventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, events OrderEventPublisher, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &OrderService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// checkTotals verifies the client's money fields at cent precision.
func checkTotals(req *domain.CreateOrderRequest) error {
	if req.DeliveryFee.IsNegative() {
		return apperrors.InvalidInput("deliveryFee must not be negative")
	}
	subtotal := domain.ItemsSubtotal(req.Items).Round(2)
	if !req.Subtotal.Round(2).Equal(subtotal) {
		return apperrors.InvalidInput(fmt.Sprintf("subtotal %s does not match items total %s",
			req.Subtotal.StringFixed(2), subtotal.StringFixed(2)))
	}
	if !req.Total.Round(2).Equal(req.Subtotal.Add(req.DeliveryFee).Round(2)) {
		return apperrors.InvalidInput(fmt.Sprintf("total %s does not equal subtotal plus delivery fee",
			req.Total.StringFixed(2)))
	}
	return nil
}

// CreateOrder validates req, stores a pending order and announces it.
// Event publishing failures are logged, never returned.
func (s *OrderService) CreateOrder(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if req.DeliveryType == domain.DeliveryTypeDeliver && req.Address == nil {
		return nil, apperrors.InvalidInput("Address required for delivery")
	}
	if err := checkTotals(req); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:           uuid.NewString(),
		Items:        req.Items,
		DeliveryType: req.DeliveryType,
		Address:      req.Address,
		Subtotal:     req.Subtotal,
		DeliveryFee:  req.DeliveryFee,
		Total:        req.Total,
		Status:       domain.OrderStatusPending,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.events.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("delivery_type", string(order.DeliveryType)),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// GetOrder retrieves an order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("order", id)
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns one page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params pagination.Params) (pagination.Result[domain.Order], error) {
	orders, total, err := s.repo.List(ctx, repository.OrderFilter{Page: params.Page, PerPage: params.PerPage})
	if err != nil {
		return pagination.Result[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return pagination.NewResult(orders, total, params), nil
}
