package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

// Item is a cart line as written into the session by the add-to-cart flow.
type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// LineTotal is the extended price, price × quantity.
func (it Item) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Total sums the extended price of every item.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// ProductIDs returns the item ids in cart order.
func ProductIDs(items []Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

// Validate rejects items whose quantity is below 1.
func Validate(items []Item) error {
	for _, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("item %d quantity %d: %w", it.ID, it.Quantity, ErrInvalidQuantity)
		}
	}
	return nil
}
