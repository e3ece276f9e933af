package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/repository/repotest"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "handler-secret"

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type env struct {
	e      *echo.Echo
	items  *repotest.CartItems
	orders *repotest.Orders
}

func shirt() model.Product {
	return model.Product{
		ID:       "p-shirt",
		Title:    "Linen Shirt",
		Slug:     "linen-shirt",
		Price:    decimal.RequireFromString("30"),
		Images:   []string{"https://img.example.com/shirt.jpg"},
		IsActive: true,
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := config.Config{JWTSecret: secret}
	users := repotest.NewUsers(model.User{ID: "user-alice", Email: "alice@example.com", IsActive: true})

	items := repotest.NewCartItems(shirt())
	orders := repotest.NewOrders()

	cartDeps := usecase.CartDeps{
		Items: items,
		IDs:   &repotest.SeqIDs{},
		Clock: repotest.FixedClock{T: testNow},
	}
	checkoutDeps := usecase.CheckoutDeps{
		Tx:           repotest.NewTxManager(orders, items, nil),
		OrderNumbers: &repotest.OrderNumbers{},
		IDs:          &repotest.SeqIDs{},
		Clock:        repotest.FixedClock{T: testNow},
	}

	e := echo.New()
	e.Validator = validator.New()
	handler.NewCartHandler(cartDeps).RegisterRoutes(e, cfg, users)
	handler.NewCheckoutHandler(cartDeps, checkoutDeps).RegisterRoutes(e, cfg, users)
	handler.NewOrderHandler(usecase.NewOrderUsecase(orders)).RegisterRoutes(e, cfg, users)

	return &env{e: e, items: items, orders: orders}
}

func aliceToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "user-alice",
		"email": "alice@example.com",
		"adm":   false,
		"tv":    0,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Minute).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (v *env) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestCart_SignedOutView(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodGet, "/cart", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view usecase.CartView
	decode(t, rec, &view)
	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Summary.Total)
}

func TestCart_SignedOutAddIsUnauthorized(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPost, "/cart", "", `{"product_id":"p-shirt"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, v.items.Count("user-alice"))
}

func TestCart_AddDefaultsToOne(t *testing.T) {
	v := newEnv(t)
	token := aliceToken(t)

	rec := v.do(http.MethodPost, "/cart", token, `{"product_id":"p-shirt"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view usecase.CartView
	decode(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.ItemCount)
	assert.Equal(t, "30.00", view.Summary.Subtotal)
	assert.Equal(t, "5.00", view.Summary.Shipping)
	assert.Equal(t, "3.00", view.Summary.Tax)
	assert.Equal(t, "38.00", view.Summary.Total)
}

func TestCart_PatchRequiresQuantity(t *testing.T) {
	v := newEnv(t)
	token := aliceToken(t)
	v.items.Seed(model.CartItem{ID: "ci-1", UserID: "user-alice", ProductID: "p-shirt", Quantity: 1})

	rec := v.do(http.MethodPatch, "/cart/ci-1", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = v.do(http.MethodPatch, "/cart/ci-1", token, `{"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var view usecase.CartView
	decode(t, rec, &view)
	assert.Equal(t, int64(2), view.ItemCount)
	assert.Equal(t, "60.00", view.Summary.Subtotal)
	assert.True(t, view.Summary.FreeShipping)
}

func TestCart_MutationsRequireToken(t *testing.T) {
	v := newEnv(t)

	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodPatch, "/cart/ci-1", "", `{"quantity":2}`).Code)
	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodDelete, "/cart/ci-1", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodDelete, "/cart", "", "").Code)
}

func TestCheckout_EmptyCartRedirects(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodGet, "/checkout", aliceToken(t), "")

	require.Equal(t, http.StatusConflict, rec.Code)
	var body handler.ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "/cart", body.Redirect)
}

func TestCheckout_SignedOutRedirectsToCart(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodGet, "/checkout", "", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	var body handler.ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "/cart", body.Redirect)

	rec = v.do(http.MethodPost, "/checkout", "", `{"full_name":"Alice"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckout_PlaceOrder(t *testing.T) {
	v := newEnv(t)
	token := aliceToken(t)
	v.items.Seed(model.CartItem{ID: "ci-1", UserID: "user-alice", ProductID: "p-shirt", Quantity: 2})

	rec := v.do(http.MethodGet, "/checkout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary handler.CheckoutSummaryResponse
	decode(t, rec, &summary)
	assert.Equal(t, "alice@example.com", summary.Email)
	assert.Equal(t, "66.00", summary.Summary.Total)

	body := `{"full_name":"Alice Example","email":"alice@example.com","phone":"555-0100",
		"address":"1 Main St","city":"Springfield","state":"IL","zip_code":"62701","country":"US"}`
	rec = v.do(http.MethodPost, "/checkout", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res usecase.CheckoutResult
	decode(t, rec, &res)
	assert.Equal(t, "ORD-TEST-000001", res.OrderNumber)
	assert.Equal(t, "/orders", res.Redirect)
	assert.Equal(t, 0, v.items.Count("user-alice"))
	assert.Equal(t, 1, v.orders.Len())

	rec = v.do(http.MethodGet, "/orders", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []model.Order
	decode(t, rec, &orders)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 1)
}

func TestCheckout_MissingFields(t *testing.T) {
	v := newEnv(t)
	v.items.Seed(model.CartItem{ID: "ci-1", UserID: "user-alice", ProductID: "p-shirt", Quantity: 1})

	rec := v.do(http.MethodPost, "/checkout", aliceToken(t), `{"full_name":"Alice"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body handler.ErrorResponse
	decode(t, rec, &body)
	assert.Contains(t, body.Error, "zip_code")
	assert.Equal(t, 0, v.orders.Len())
}

func TestCheckout_BackendFailureIs500(t *testing.T) {
	v := newEnv(t)
	v.items.Seed(model.CartItem{ID: "ci-1", UserID: "user-alice", ProductID: "p-shirt", Quantity: 1})
	v.items.ListErr = errors.New("connection refused")

	rec := v.do(http.MethodGet, "/checkout", aliceToken(t), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
