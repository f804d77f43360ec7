package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).ParseFS(templatesFS, "templates/*.html"))

// page carries what the shared header and footer need.
type page struct {
	Title    string
	ShopName string
	Currency string
	HomePath string
	Year     int
}

type shippingForm struct {
	Name    string
	Address string
	Phone   string
}

type checkoutPage struct {
	page
	Action  string
	Summary checkout.Summary
	Form    shippingForm
	Error   string
}

type confirmationPage struct {
	page
	Order *order.Order
}

// render executes the named template into a buffer first so a template error
// never leaves a half-written page behind.
func render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func newPage(title string, cfg config.Config) page {
	return page{
		Title:    title,
		ShopName: cfg.ShopName,
		Currency: cfg.CurrencySymbol,
		HomePath: cfg.LandingPath,
		Year:     time.Now().Year(),
	}
}
