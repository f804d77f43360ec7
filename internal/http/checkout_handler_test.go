package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/logger"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

const cookieName = "checkout_session"

type fakeSessions struct {
	mu      sync.Mutex
	data    map[string]session.Session
	loadErr error
	saveErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: map[string]session.Session{}}
}

func (f *fakeSessions) Load(ctx context.Context, id string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	s, ok := f.data[id]
	if !ok {
		return &session.Session{ID: id}, nil
	}
	return &s, nil
}

func (f *fakeSessions) Save(ctx context.Context, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[s.ID] = *s
	return nil
}

func (f *fakeSessions) get(id string) session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[id]
}

type fakeOrders struct {
	mu        sync.Mutex
	createErr error
	getErr    error
	orders    []order.Order
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = int64(len(f.orders) + 1)
	o.CreatedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, orderID int64) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, o := range f.orders {
		if o.ID == orderID {
			o := o
			return &o, nil
		}
	}
	return nil, order.ErrNotFound
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderPlaced(context.Context, *order.Order, string) error { return nil }

func testConfig() config.Config {
	return config.Config{
		RequestTimeout:   2 * time.Second,
		SessionCookie:    cookieName,
		SessionTTL:       time.Hour,
		LandingPath:      "/",
		LoginPath:        "/login",
		ConfirmationPath: "/order-confirmation",
		ShopName:         "FOODZIE",
		CurrencySymbol:   "₱",
	}
}

type testApp struct {
	router   http.Handler
	sessions *fakeSessions
	orders   *fakeOrders
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	sessions := newFakeSessions()
	orders := &fakeOrders{}
	log := logger.Discard()

	router := NewRouter(Deps{
		Logger:   log,
		Cfg:      testConfig(),
		Checkout: checkout.NewService(orders, nopPublisher{}, log),
		Orders:   orders,
		Sessions: sessions,
	})

	return &testApp{router: router, sessions: sessions, orders: orders}
}

func burgerAndFries() []cart.Item {
	return []cart.Item{
		{ID: 1, Name: "Burger", Price: decimal.RequireFromString("120.00"), Quantity: 2},
		{ID: 2, Name: "Fries", Price: decimal.RequireFromString("60.00"), Quantity: 1},
	}
}

func userID(id int64) *int64 { return &id }

func (a *testApp) seed(t *testing.T, s session.Session) {
	t.Helper()
	require.NoError(t, a.sessions.Save(context.Background(), &s))
}

func (a *testApp) do(req *http.Request, sessionID string) *httptest.ResponseRecorder {
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func confirmValues() url.Values {
	return url.Values{
		"name":          {"Juan Dela Cruz"},
		"address":       {"1 Rizal Ave, Manila"},
		"phone":         {"0917 555 0100"},
		"confirm_order": {""},
	}
}

func TestCheckoutGET_RendersSummary(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries()})

	rr := app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "s1")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Burger")
	assert.Contains(t, body, "(x2)")
	assert.Contains(t, body, "₱240.00")
	assert.Contains(t, body, "₱60.00")
	assert.Contains(t, body, "Total: ₱300.00")
	assert.Contains(t, body, `name="confirm_order"`)
	assert.Contains(t, body, `action="/checkout"`)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
}

func TestCheckout_NoCacheHeadersOnEveryResponse(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries()})

	responses := []*httptest.ResponseRecorder{
		app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "s1"),
		app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), ""),
		app.do(postForm(confirmValues()), "s1"),
	}

	for _, rr := range responses {
		assert.Contains(t, rr.Header().Get("Cache-Control"), "no-store")
		assert.Contains(t, rr.Header().Get("Cache-Control"), "no-cache")
		assert.Contains(t, rr.Header().Get("Cache-Control"), "must-revalidate")
		assert.Equal(t, "no-cache", rr.Header().Get("Pragma"))
		assert.NotEmpty(t, rr.Header().Get("Expires"))
	}
}

func TestCheckout_EmptyCartRedirectsToLanding(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", UserID: userID(5)})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/checkout", nil),
		postForm(confirmValues()),
	} {
		rr := app.do(req, "s1")
		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	}
	assert.Empty(t, app.orders.orders)
}

func TestCheckout_NoSessionCookieRedirectsToLanding(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Empty(t, rr.Result().Cookies())
}

func TestCheckoutPOST_UnauthenticatedRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries()})

	rr := app.do(postForm(confirmValues()), "s1")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Empty(t, app.orders.orders)
	assert.Len(t, app.sessions.get("s1").Cart, 2)
}

func TestCheckoutPOST_PlacesOrder(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries(), UserID: userID(5)})

	rr := app.do(postForm(confirmValues()), "s1")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/order-confirmation", rr.Header().Get("Location"))

	require.Len(t, app.orders.orders, 1)
	o := app.orders.orders[0]
	assert.Equal(t, int64(5), o.UserID)
	assert.Equal(t, "1,2", order.FormatProductIDs(o.ProductIDs))
	assert.Equal(t, "300.00", o.TotalPrice.StringFixed(2))

	sess := app.sessions.get("s1")
	assert.Empty(t, sess.Cart)
	require.NotNil(t, sess.OrderID)
	assert.Equal(t, o.ID, *sess.OrderID)
	require.NotNil(t, sess.UserID)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Equal(t, "s1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCheckoutPOST_RefreshAfterSuccessDoesNotDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries(), UserID: userID(5)})

	first := app.do(postForm(confirmValues()), "s1")
	require.Equal(t, http.StatusSeeOther, first.Code)

	second := app.do(postForm(confirmValues()), "s1")
	require.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, "/", second.Header().Get("Location"))
	assert.Len(t, app.orders.orders, 1)
}

func TestCheckoutPOST_PersistenceFailureShowsError(t *testing.T) {
	app := newTestApp(t)
	app.orders.createErr = errors.New(`insert order: relation "orders" does not exist`)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries(), UserID: userID(5)})

	rr := app.do(postForm(confirmValues()), "s1")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	body := rr.Body.String()
	assert.Contains(t, body, "Error: insert order: relation &#34;orders&#34; does not exist")
	assert.Contains(t, body, "Total: ₱300.00")
	// submitted shipping details survive the re-render
	assert.Contains(t, body, `value="Juan Dela Cruz"`)

	assert.Len(t, app.sessions.get("s1").Cart, 2)
	assert.Nil(t, app.sessions.get("s1").OrderID)
}

func TestCheckoutPOST_WithoutConfirmRendersForm(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries(), UserID: userID(5)})

	values := confirmValues()
	values.Del("confirm_order")
	rr := app.do(postForm(values), "s1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1 Rizal Ave, Manila")
	assert.Empty(t, app.orders.orders)
}

func TestCheckout_EscapesItemNames(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: []cart.Item{
		{ID: 9, Name: "<script>alert(1)</script>", Price: decimal.NewFromInt(1), Quantity: 1},
	}})

	rr := app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "s1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rr.Body.String(), "&lt;script&gt;")
}

func TestCheckout_InvalidQuantityRejected(t *testing.T) {
	app := newTestApp(t)
	items := burgerAndFries()
	items[1].Quantity = 0
	app.seed(t, session.Session{ID: "s1", Cart: items, UserID: userID(5)})

	get := app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "s1")
	assert.Equal(t, http.StatusUnprocessableEntity, get.Code)

	post := app.do(postForm(confirmValues()), "s1")
	assert.Equal(t, http.StatusUnprocessableEntity, post.Code)
	assert.Empty(t, app.orders.orders)
	assert.Len(t, app.sessions.get("s1").Cart, 2)
}

func TestCheckout_SessionStoreFailure(t *testing.T) {
	app := newTestApp(t)
	app.sessions.loadErr = errors.New("redis: connection refused")

	rr := app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "s1")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "redis")
}

func TestCheckoutPOST_SessionSaveFailure(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries(), UserID: userID(5)})
	app.sessions.saveErr = errors.New("redis: connection refused")

	rr := app.do(postForm(confirmValues()), "s1")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	assert.Len(t, app.orders.orders, 1)
}

func TestCheckout_CorrelationIDEchoed(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, session.Session{ID: "s1", Cart: burgerAndFries()})

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set(HeaderCorrelationID, "corr-123")
	rr := app.do(req, "s1")

	assert.Equal(t, "corr-123", rr.Header().Get(HeaderCorrelationID))

	rr = app.do(httptest.NewRequest(http.MethodGet, "/checkout", nil), "s1")
	assert.NotEmpty(t, rr.Header().Get(HeaderCorrelationID))
}
