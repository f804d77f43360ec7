package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/telemetry"
)

const serviceName = "checkout-service"

type Deps struct {
	Logger   *slog.Logger
	Cfg      config.Config
	Checkout *checkout.Service
	Orders   OrderFinder
	Sessions session.Store
	// TracerProvider defaults to the otel global.
	TracerProvider trace.TracerProvider
}

func NewRouter(d Deps) http.Handler {
	sessions := NewSessionManager(d.Sessions, d.Cfg.SessionCookie, d.Cfg.SessionTTL)
	checkoutHandler := NewCheckoutHandler(d.Checkout, sessions, d.Cfg, d.Logger)
	confirmationHandler := NewConfirmationHandler(d.Orders, sessions, d.Cfg, d.Logger)

	otelOpts := []otelhttp.Option{otelhttp.WithPropagators(telemetry.Propagator())}
	if d.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(d.TracerProvider))
	}

	r := chi.NewRouter()
	r.Use(otelhttp.NewMiddleware(serviceName, otelOpts...))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	// Pages show session-specific carts and orders; nothing may be cached.
	r.Use(middleware.NoCache)

	r.Get("/health", healthHandler)

	r.Get(CheckoutPath, checkoutHandler.Checkout)
	r.Post(CheckoutPath, checkoutHandler.Checkout)
	r.Get(d.Cfg.ConfirmationPath, confirmationHandler.Confirmation)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
