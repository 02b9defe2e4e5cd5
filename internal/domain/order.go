package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryType is how the customer receives the order.
type DeliveryType string

const (
	DeliveryTypeDeliver DeliveryType = "deliver"
	DeliveryTypePickup  DeliveryType = "pickup"
)

// Valid reports whether t is a known delivery type.
func (t DeliveryType) Valid() bool {
	return t == DeliveryTypeDeliver || t == DeliveryTypePickup
}

// OrderStatus is the lifecycle state of an order. New orders are pending;
// nothing in this system advances them further.
type OrderStatus string

const OrderStatusPending OrderStatus = "pending"

// DeliveryAddress is a resolved or manually entered address. Latitude and
// Longitude always come from the same resolution.
type DeliveryAddress struct {
	Street      string  `json:"street" validate:"required"`
	FullAddress string  `json:"fullAddress" validate:"required"`
	City        string  `json:"city,omitempty"`
	Region      string  `json:"region,omitempty"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	CoffeeID    string `json:"coffeeId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required,price"`
	Size        string `json:"size" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the body of POST /api/orders. Money fields accept
// JSON numbers or decimal strings.
type CreateOrderRequest struct {
	Items        []OrderItem      `json:"items" validate:"required,min=1,dive"`
	DeliveryType DeliveryType     `json:"deliveryType" validate:"required,oneof=deliver pickup"`
	Address      *DeliveryAddress `json:"address,omitempty" validate:"omitempty"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
	DeliveryFee  decimal.Decimal  `json:"deliveryFee"`
	Total        decimal.Decimal  `json:"total"`
}

// Order is a persisted order.
type Order struct {
	ID           string           `json:"id"`
	Items        []OrderItem      `json:"items"`
	DeliveryType DeliveryType     `json:"deliveryType"`
	Address      *DeliveryAddress `json:"address,omitempty"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
	DeliveryFee  decimal.Decimal  `json:"deliveryFee"`
	Total        decimal.Decimal  `json:"total"`
	Status       OrderStatus      `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// OrderReceipt is what POST /api/orders returns to the client.
type OrderReceipt struct {
	ID           string          `json:"id"`
	Items        []OrderItem     `json:"items"`
	DeliveryType DeliveryType    `json:"deliveryType"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
}

// Receipt projects o onto the client-facing receipt.
func (o *Order) Receipt() *OrderReceipt {
	return &OrderReceipt{
		ID:           o.ID,
		Items:        o.Items,
		DeliveryType: o.DeliveryType,
		Subtotal:     o.Subtotal,
		DeliveryFee:  o.DeliveryFee,
		Total:        o.Total,
		Status:       o.Status,
	}
}

// ItemsSubtotal sums price times quantity over items.
func ItemsSubtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(ParsePrice(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}
