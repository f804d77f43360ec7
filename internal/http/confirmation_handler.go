package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type OrderFinder interface {
	GetByID(ctx context.Context, orderID int64) (*order.Order, error)
}

type ConfirmationHandler struct {
	orders   OrderFinder
	sessions *SessionManager
	cfg      config.Config
	logger   *slog.Logger
}

func NewConfirmationHandler(orders OrderFinder, sessions *SessionManager, cfg config.Config, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{orders: orders, sessions: sessions, cfg: cfg, logger: logger}
}

// Confirmation shows the order whose id the checkout stored in the session.
func (h *ConfirmationHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	sess, err := h.sessions.Load(ctx, r)
	if err != nil {
		h.logger.ErrorContext(ctx, "confirmation: load session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if sess.OrderID == nil {
		http.Redirect(w, r, h.cfg.LandingPath, http.StatusSeeOther)
		return
	}

	o, err := h.orders.GetByID(ctx, *sess.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Redirect(w, r, h.cfg.LandingPath, http.StatusSeeOther)
			return
		}
		h.logger.ErrorContext(ctx, "confirmation: load order", "order_id", *sess.OrderID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	err = render(w, http.StatusOK, "confirmation", confirmationPage{
		page:  newPage("Order Confirmation", h.cfg),
		Order: o,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "confirmation: render", "error", err)
	}
}
