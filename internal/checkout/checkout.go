// Package checkout turns the cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/store"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrAddressRequired = errors.New("delivery address is required")
)

// Delivery fees. The full fee is only shown struck through next to the
// discounted one.
var (
	DeliveryFeeOriginal   = decimal.RequireFromString("2.00")
	DeliveryFeeDiscounted = decimal.RequireFromString("1.00")
)

// OrderCreator submits orders to the backend.
type OrderCreator interface {
	CreateOrder(ctx context.Context, payload *domain.CreateOrderRequest) (*domain.OrderReceipt, error)
}

// OrderSummary is the payment summary shown before placing an order.
type OrderSummary struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	// OriginalFee is zero for pickup.
	OriginalFee decimal.Decimal
	Total       decimal.Decimal
}

// DeliveryFee returns the fee charged and the undiscounted fee for t.
func DeliveryFee(t domain.DeliveryType) (charged, original decimal.Decimal) {
	if t == domain.DeliveryTypeDeliver {
		return DeliveryFeeDiscounted, DeliveryFeeOriginal
	}
	return decimal.Zero, decimal.Zero
}

// Summary prices cart for delivery type t.
func Summary(cart *store.CartStore, t domain.DeliveryType) OrderSummary {
	subtotal := cart.Total()
	fee, original := DeliveryFee(t)
	return OrderSummary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		OriginalFee: original,
		Total:       subtotal.Add(fee),
	}
}

// Service places orders for one storefront session.
type Service struct {
	cart      *store.CartStore
	addresses *store.AddressStore
	orders    OrderCreator
	logger    *slog.Logger
}

func NewService(cart *store.CartStore, addresses *store.AddressStore, orders OrderCreator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Service{cart: cart, addresses: addresses, orders: orders, logger: logger}
}

// BuildRequest assembles the order payload from the current cart and
// address without submitting it.
func (s *Service) BuildRequest(t domain.DeliveryType) (*domain.CreateOrderRequest, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown delivery type %q", t)
	}

	lines := s.cart.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	req := &domain.CreateOrderRequest{
		Items:        make([]domain.OrderItem, len(lines)),
		DeliveryType: t,
	}
	for i, li := range lines {
		req.Items[i] = li.OrderItem()
	}

	if t == domain.DeliveryTypeDeliver {
		addr := s.addresses.Address()
		if addr == nil {
			return nil, ErrAddressRequired
		}
		req.Address = addr
	}

	subtotal := decimal.Zero
	for _, li := range lines {
		subtotal = subtotal.Add(li.LineTotal())
	}
	fee, _ := DeliveryFee(t)
	req.Subtotal = subtotal
	req.DeliveryFee = fee
	req.Total = subtotal.Add(fee)
	return req, nil
}

// PlaceOrder submits the cart. The cart is cleared only after the backend
// accepts the order.
func (s *Service) PlaceOrder(ctx context.Context, t domain.DeliveryType) (*domain.OrderReceipt, error) {
	req, err := s.BuildRequest(t)
	if err != nil {
		return nil, err
	}

	receipt, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to place order",
			slog.String("delivery_type", string(t)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.cart.Clear()
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", receipt.ID),
		slog.Int("items", len(req.Items)),
		slog.String("total", domain.FormatMoney(req.Total)),
	)
	return receipt, nil
}
