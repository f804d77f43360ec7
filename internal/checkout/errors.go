package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart means there is nothing to check out.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrUnauthenticated means an order was submitted without a logged-in user.
	ErrUnauthenticated = errors.New("checkout: user is not logged in")
	// ErrInvalidCart means a cart line breaks the item rules (see cart.Validate).
	ErrInvalidCart = errors.New("checkout: invalid cart")
)

// PersistenceError wraps a failed order insert. Nothing else was mutated
// when it is returned.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("checkout: persist order: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
