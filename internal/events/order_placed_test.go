package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

func placedOrder() *order.Order {
	return &order.Order{
		ID:         17,
		UserID:     5,
		ProductIDs: []int64{1, 2},
		TotalPrice: decimal.RequireFromString("300.00"),
		CreatedAt:  time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildOrderPlacedEnvelope(t *testing.T) {
	env := BuildOrderPlacedEnvelope(placedOrder(), "corr-1")

	require.NoError(t, env.Validate(OrderPlacedEventName, OrderPlacedEventVersion))
	assert.Equal(t, "17", env.PartitionKey)
	assert.Equal(t, "corr-1", env.CorrelationID)
	assert.Equal(t, "checkout-service", env.Producer)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, []int64{1, 2}, env.Payload.ProductIDs)
	assert.Equal(t, int64(5), env.Payload.UserID)
}

func TestBuildOrderPlacedEnvelope_GeneratesCorrelationID(t *testing.T) {
	a := BuildOrderPlacedEnvelope(placedOrder(), "")
	b := BuildOrderPlacedEnvelope(placedOrder(), "")

	assert.NotEmpty(t, a.CorrelationID)
	assert.NotEqual(t, a.CorrelationID, b.CorrelationID)
	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestOrderPlacedEnvelope_JSONShape(t *testing.T) {
	body, err := json.Marshal(BuildOrderPlacedEnvelope(placedOrder(), "corr-1"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "OrderPlaced", raw["eventName"])
	assert.EqualValues(t, 1, raw["eventVersion"])

	payload, ok := raw["payload"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 17, payload["orderId"])
	assert.Equal(t, "300", payload["totalPrice"])
}

func TestEnvelopeValidate_Rejects(t *testing.T) {
	env := BuildOrderPlacedEnvelope(placedOrder(), "")

	assert.Error(t, env.Validate("OrderCreated", OrderPlacedEventVersion))
	assert.Error(t, env.Validate(OrderPlacedEventName, 2))

	env.PartitionKey = ""
	assert.ErrorContains(t, env.Validate(OrderPlacedEventName, OrderPlacedEventVersion), "partitionKey")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishOrderPlaced(context.Background(), placedOrder(), ""))
}
