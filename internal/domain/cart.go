package domain

import "github.com/shopspring/decimal"

// Drink sizes offered on the detail screen.
const (
	SizeSmall  = "S"
	SizeMedium = "M"
	SizeLarge  = "L"
)

// Selection is what the detail screen hands to the cart on "add".
type Selection struct {
	ProductID   string
	Size        string
	Name        string
	Description string
	UnitPrice   string
	Image       string
}

// SelectionFromCoffee builds a Selection for c in the given size.
func SelectionFromCoffee(c Coffee, size string) Selection {
	return Selection{
		ProductID:   c.ID,
		Size:        size,
		Name:        c.Name,
		Description: c.Description,
		UnitPrice:   c.Price,
		Image:       c.Image,
	}
}

// CartLineItem is one row of the cart. ID is derived from the product and
// size so the same drink in the same size always maps to the same row.
type CartLineItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"price"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Image       string `json:"image"`
}

// LineItemID returns the composite key for a product in a size.
func LineItemID(productID, size string) string {
	return productID + "-" + size
}

// LineTotal is unit price times quantity, unrounded.
func (li CartLineItem) LineTotal() decimal.Decimal {
	return ParsePrice(li.UnitPrice).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// OrderItem converts the line into the order payload shape.
func (li CartLineItem) OrderItem() OrderItem {
	return OrderItem{
		CoffeeID:    li.ProductID,
		Name:        li.Name,
		Description: li.Description,
		Price:       li.UnitPrice,
		Size:        li.Size,
		Quantity:    li.Quantity,
	}
}
