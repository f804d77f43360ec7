package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
)

// Session is the server-side state behind the session cookie. The cart is
// written by the add-to-cart flow and user_id by the login flow; checkout
// reads both and writes order_id.
type Session struct {
	ID      string      `json:"-"`
	Cart    []cart.Item `json:"cart,omitempty"`
	UserID  *int64      `json:"user_id,omitempty"`
	OrderID *int64      `json:"order_id,omitempty"`
}

// Store persists sessions by id. Load returns an empty session, not an error,
// when the id is unknown or expired.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// ClearCart removes the cart key.
func (s *Session) ClearCart() {
	s.Cart = nil
}

func (s *Session) SetOrderID(id int64) {
	s.OrderID = &id
}

func encode(s *Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decode(id string, data []byte) (*Session, error) {
	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	s.ID = id
	return s, nil
}
