package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burgerAndFries() []Item {
	return []Item{
		{ID: 1, Name: "Burger", Price: decimal.RequireFromString("120.00"), Quantity: 2},
		{ID: 2, Name: "Fries", Price: decimal.RequireFromString("60.00"), Quantity: 1},
	}
}

func TestTotal(t *testing.T) {
	items := burgerAndFries()

	assert.Equal(t, "240.00", items[0].LineTotal().StringFixed(2))
	assert.Equal(t, "300.00", Total(items).StringFixed(2))
}

func TestTotal_Empty(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
}

func TestTotal_NoFloatDrift(t *testing.T) {
	items := []Item{
		{ID: 1, Price: decimal.RequireFromString("0.10"), Quantity: 3},
		{ID: 2, Price: decimal.RequireFromString("0.20"), Quantity: 1},
	}

	assert.Equal(t, "0.50", Total(items).StringFixed(2))
}

func TestProductIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, ProductIDs(burgerAndFries()))
	assert.Empty(t, ProductIDs(nil))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(burgerAndFries()))

	for _, qty := range []int{0, -1} {
		items := append(burgerAndFries(), Item{ID: 9, Name: "Soda", Price: decimal.NewFromInt(45), Quantity: qty})
		err := Validate(items)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Contains(t, err.Error(), "item 9")
	}
}

func TestItem_DecodesNumericPrice(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"Soda","price":45.5,"quantity":2}`), &it))

	assert.Equal(t, int64(3), it.ID)
	assert.Equal(t, "91.00", it.LineTotal().StringFixed(2))
}
