package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

// Request is the per-request input: a snapshot of the session cart and the
// logged-in user, if any.
type Request struct {
	Cart          []cart.Item
	UserID        *int64
	CorrelationID string
}

type Line struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Summary struct {
	Lines []Line
	Total decimal.Decimal
}

type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order, correlationID string) error
}

type Service struct {
	orders    OrderStore
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(orders OrderStore, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{orders: orders, publisher: publisher, logger: logger}
}

// Summarize prices the cart for display.
func (s *Service) Summarize(req Request) (Summary, error) {
	if err := validate(req); err != nil {
		return Summary{}, err
	}

	lines := make([]Line, 0, len(req.Cart))
	for _, it := range req.Cart {
		lines = append(lines, Line{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			LineTotal: it.LineTotal(),
		})
	}

	return Summary{Lines: lines, Total: cart.Total(req.Cart)}, nil
}

// PlaceOrder writes one order for the cart snapshot. The total is always
// computed here from the snapshot. The caller clears the cart only after a
// nil error.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*order.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.UserID == nil {
		return nil, ErrUnauthenticated
	}

	o := &order.Order{
		UserID:     *req.UserID,
		ProductIDs: cart.ProductIDs(req.Cart),
		TotalPrice: cart.Total(req.Cart),
	}

	if err := s.orders.Create(ctx, o); err != nil {
		s.logger.ErrorContext(ctx, "order insert failed",
			"user_id", o.UserID,
			"error", err,
		)
		return nil, &PersistenceError{Err: err}
	}

	s.logger.InfoContext(ctx, "order placed",
		"order_id", o.ID,
		"user_id", o.UserID,
		"product_ids", order.FormatProductIDs(o.ProductIDs),
		"total_price", o.TotalPrice.StringFixed(2),
	)

	// The order is already durable; a lost event is logged, not returned.
	if err := s.publisher.PublishOrderPlaced(ctx, o, req.CorrelationID); err != nil {
		s.logger.WarnContext(ctx, "publish OrderPlaced failed",
			"order_id", o.ID,
			"error", err,
		)
	}

	return o, nil
}

func validate(req Request) error {
	if len(req.Cart) == 0 {
		return ErrEmptyCart
	}
	if err := cart.Validate(req.Cart); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCart, err)
	}
	return nil
}
