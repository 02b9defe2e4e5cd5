package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/store"
)

type mockOrderCreator struct {
	mock.Mock
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, payload *domain.CreateOrderRequest) (*domain.OrderReceipt, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderReceipt), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func filledCart() *store.CartStore {
	cart := store.NewCartStore(nil)
	mocha := domain.Selection{ProductID: "1", Size: "M", Name: "Caffe Mocha", Description: "Deep Foam", UnitPrice: "4.53"}
	cart.AddItem(mocha)
	cart.AddItem(mocha)
	cart.AddItem(domain.Selection{ProductID: "4", Size: "S", Name: "Americano", UnitPrice: "2.99"})
	return cart
}

func TestSummary(t *testing.T) {
	cart := filledCart()

	deliver := Summary(cart, domain.DeliveryTypeDeliver)
	assert.True(t, deliver.Subtotal.Equal(dec("12.05")))
	assert.True(t, deliver.DeliveryFee.Equal(dec("1")))
	assert.True(t, deliver.OriginalFee.Equal(dec("2")))
	assert.True(t, deliver.Total.Equal(dec("13.05")))

	pickup := Summary(cart, domain.DeliveryTypePickup)
	assert.True(t, pickup.DeliveryFee.IsZero())
	assert.True(t, pickup.OriginalFee.IsZero())
	assert.True(t, pickup.Total.Equal(dec("12.05")))
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	orders := new(mockOrderCreator)
	svc := NewService(store.NewCartStore(nil), store.NewAddressStore(), orders, nil)

	_, err := svc.PlaceOrder(context.Background(), domain.DeliveryTypePickup)

	assert.ErrorIs(t, err, ErrEmptyCart)
	orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrder_DeliverNeedsAddress(t *testing.T) {
	orders := new(mockOrderCreator)
	cart := filledCart()
	svc := NewService(cart, store.NewAddressStore(), orders, nil)

	_, err := svc.PlaceOrder(context.Background(), domain.DeliveryTypeDeliver)

	assert.ErrorIs(t, err, ErrAddressRequired)
	assert.Equal(t, 3, cart.ItemCount())
	orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrder_UnknownDeliveryType(t *testing.T) {
	svc := NewService(filledCart(), store.NewAddressStore(), new(mockOrderCreator), nil)

	_, err := svc.PlaceOrder(context.Background(), domain.DeliveryType("drone"))

	assert.Error(t, err)
}

func TestPlaceOrder_DeliverSuccess(t *testing.T) {
	cart := filledCart()
	addresses := store.NewAddressStore()
	addresses.SetAddress(domain.DeliveryAddress{Street: "Jl. Kpg Sutoyo", FullAddress: "Jl. Kpg Sutoyo, Jakarta", Latitude: -6.2, Longitude: 106.8})

	orders := new(mockOrderCreator)
	orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *domain.CreateOrderRequest) bool {
		return req.DeliveryType == domain.DeliveryTypeDeliver &&
			len(req.Items) == 2 &&
			req.Items[0].CoffeeID == "1" && req.Items[0].Quantity == 2 && req.Items[0].Price == "4.53" &&
			req.Address != nil && req.Address.Street == "Jl. Kpg Sutoyo" &&
			req.Subtotal.Equal(dec("12.05")) &&
			req.DeliveryFee.Equal(dec("1")) &&
			req.Total.Equal(dec("13.05"))
	})).Return(&domain.OrderReceipt{ID: "ord-1", Status: domain.OrderStatusPending}, nil)

	svc := NewService(cart, addresses, orders, nil)
	receipt, err := svc.PlaceOrder(context.Background(), domain.DeliveryTypeDeliver)

	require.NoError(t, err)
	assert.Equal(t, "ord-1", receipt.ID)
	assert.Empty(t, cart.Items())
	orders.AssertExpectations(t)
}

func TestPlaceOrder_PickupOmitsAddress(t *testing.T) {
	addresses := store.NewAddressStore()
	addresses.SetAddress(domain.DeliveryAddress{Street: "Home", FullAddress: "Home, Town"})

	orders := new(mockOrderCreator)
	orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *domain.CreateOrderRequest) bool {
		return req.Address == nil && req.DeliveryFee.IsZero() && req.Total.Equal(dec("12.05"))
	})).Return(&domain.OrderReceipt{ID: "ord-2"}, nil)

	svc := NewService(filledCart(), addresses, orders, nil)
	_, err := svc.PlaceOrder(context.Background(), domain.DeliveryTypePickup)

	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestPlaceOrder_FailureKeepsCart(t *testing.T) {
	cart := filledCart()
	orders := new(mockOrderCreator)
	orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewService(cart, store.NewAddressStore(), orders, nil)
	_, err := svc.PlaceOrder(context.Background(), domain.DeliveryTypePickup)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 3, cart.ItemCount())
}
