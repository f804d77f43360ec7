package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	OrderPlacedEventVersion = 1
	producerName            = "checkout-service"
)

type OrderPlacedPayload struct {
	OrderID    int64           `json:"orderId"`
	UserID     int64           `json:"userId"`
	ProductIDs []int64         `json:"productIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope wraps a persisted order. A new correlation id is
// generated when none is given.
func BuildOrderPlacedEnvelope(o *order.Order, correlationID string) OrderPlacedEnvelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	return OrderPlacedEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producerName,
		PartitionKey:  strconv.FormatInt(o.ID, 10),
		OccurredAt:    time.Now().UTC(),
		Payload: OrderPlacedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			ProductIDs: o.ProductIDs,
			TotalPrice: o.TotalPrice,
			CreatedAt:  o.CreatedAt,
		},
	}
}
