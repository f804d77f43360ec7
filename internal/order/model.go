package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         int64           `json:"orderId"`
	UserID     int64           `json:"userId"`
	ProductIDs []int64         `json:"productIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}
