package domain

import "github.com/shopspring/decimal"

// Coffee is one menu entry. Numeric fields travel as strings on the wire,
// exactly as the catalog API serves them.
type Coffee struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	Rating          string `json:"rating"`
	Reviews         string `json:"reviews"`
	Image           string `json:"image"`
	FullDescription string `json:"fullDescription,omitempty"`
}

// UnitPrice parses Price. Malformed prices yield zero.
func (c Coffee) UnitPrice() decimal.Decimal {
	return ParsePrice(c.Price)
}

// ParsePrice converts a decimal price string, mapping anything unparseable
// to zero.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatMoney renders d rounded to cents, e.g. "9.06".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
