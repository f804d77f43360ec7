package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

const CheckoutPath = "/checkout"

type CheckoutHandler struct {
	svc      *checkout.Service
	sessions *SessionManager
	cfg      config.Config
	logger   *slog.Logger
}

func NewCheckoutHandler(svc *checkout.Service, sessions *SessionManager, cfg config.Config, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, sessions: sessions, cfg: cfg, logger: logger}
}

// Checkout serves GET and POST /checkout. A POST carrying confirm_order places
// the order; every other request renders the summary and shipping form.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	sess, err := h.sessions.Load(ctx, r)
	if err != nil {
		h.logger.ErrorContext(ctx, "checkout: load session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	req := checkout.Request{
		Cart:          sess.Cart,
		UserID:        sess.UserID,
		CorrelationID: GetCorrelationID(r.Context()),
	}

	summary, err := h.svc.Summarize(req)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		http.Redirect(w, r, h.cfg.LandingPath, http.StatusSeeOther)
		return
	case errors.Is(err, checkout.ErrInvalidCart):
		h.logger.WarnContext(ctx, "checkout: invalid cart in session", "error", err)
		http.Error(w, "cart contains an invalid quantity", http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "checkout: summarize", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var form shippingForm
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		form = shippingForm{
			Name:    r.PostForm.Get("name"),
			Address: r.PostForm.Get("address"),
			Phone:   r.PostForm.Get("phone"),
		}

		if r.PostForm.Has("confirm_order") {
			h.placeOrder(ctx, w, r, sess, req, summary, form)
			return
		}
	}

	h.renderCheckout(ctx, w, http.StatusOK, summary, form, "")
}

func (h *CheckoutHandler) placeOrder(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *session.Session, req checkout.Request, summary checkout.Summary, form shippingForm) {
	o, err := h.svc.PlaceOrder(ctx, req)
	if err != nil {
		var perr *checkout.PersistenceError
		switch {
		case errors.Is(err, checkout.ErrUnauthenticated):
			http.Redirect(w, r, h.cfg.LoginPath, http.StatusSeeOther)
		case errors.As(err, &perr):
			h.renderCheckout(ctx, w, http.StatusInternalServerError, summary, form, perr.Err.Error())
		default:
			h.logger.ErrorContext(ctx, "checkout: place order", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	sess.SetOrderID(o.ID)
	sess.ClearCart()
	if err := h.sessions.Save(ctx, w, sess); err != nil {
		// The order exists but the cart could not be cleared.
		h.logger.ErrorContext(ctx, "checkout: save session after order",
			"order_id", o.ID,
			"error", err,
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.cfg.ConfirmationPath, http.StatusSeeOther)
}

func (h *CheckoutHandler) renderCheckout(ctx context.Context, w http.ResponseWriter, status int, summary checkout.Summary, form shippingForm, errText string) {
	err := render(w, status, "checkout", checkoutPage{
		page:    newPage("Checkout", h.cfg),
		Action:  CheckoutPath,
		Summary: summary,
		Form:    form,
		Error:   errText,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "checkout: render", "error", err)
	}
}
