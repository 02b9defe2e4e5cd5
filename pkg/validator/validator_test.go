package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineItem struct {
	CoffeeID string `json:"coffeeId" validate:"required"`
	Price    string `json:"price" validate:"required,price"`
	Size     string `json:"size" validate:"required,oneof=S M L"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type orderBody struct {
	Items []lineItem `json:"items" validate:"required,min=1,dive"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(lineItem{CoffeeID: "1", Price: "4.53", Size: "M", Quantity: 2})
	assert.NoError(t, err)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := Validate(lineItem{Price: "4.53", Size: "M", Quantity: 1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["coffeeId"])
}

func TestValidate_PriceTag(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"4.53", true},
		{"0", true},
		{"-1.00", false},
		{"four", false},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			err := Validate(lineItem{CoffeeID: "1", Price: tt.price, Size: "S", Quantity: 1})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "must be a non-negative decimal amount", valErr.Fields()["price"])
		})
	}
}

func TestValidate_OneOfAndGte(t *testing.T) {
	err := Validate(lineItem{CoffeeID: "1", Price: "1", Size: "XL", Quantity: 0})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "must be one of: S M L", fields["size"])
	assert.Equal(t, "must be greater than or equal to 1", fields["quantity"])
	assert.Contains(t, valErr.Error(), "field 'size'")
}

func TestValidate_EmptySlice(t *testing.T) {
	err := Validate(orderBody{Items: []lineItem{}})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must contain at least 1 entries", valErr.Fields()["items"])
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"coffeeId":"2","price":"3.53","size":"L","quantity":1}`))
	var item lineItem
	require.NoError(t, DecodeAndValidate(req, &item))
	assert.Equal(t, "2", item.CoffeeID)

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	err := DecodeAndValidate(bad, &item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
