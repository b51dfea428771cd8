package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webshop/storefront/internal/models"
	"github.com/webshop/storefront/internal/repo"
	"github.com/webshop/storefront/internal/service"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Store *repo.GormRepo

	Auth     *AuthHandler
	Category *CategoryHandler
	Product  *ProductHandler
	Cart     *CartHandler
	Order    *OrderHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	store := repo.New(db)
	jwtSecret := []byte("test-jwt-secret")
	catalogSvc := &service.CatalogService{Repo: store}

	return &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Store: store,
		Auth: &AuthHandler{Svc: &service.AuthService{
			Repo:          store,
			JWTSecret:     jwtSecret,
			RefreshSecret: []byte("test-refresh-secret"),
		}},
		Category: &CategoryHandler{Svc: catalogSvc},
		Product:  &ProductHandler{Svc: catalogSvc},
		Cart:     &CartHandler{Svc: &service.CartService{Repo: store}},
		Order:    &OrderHandler{Svc: &service.CheckoutService{Repo: store}},
	}
}

// doJSONRequest builds an echo context for a direct handler call. The
// optional userID mimics what the auth middleware would have set.
func (env *testEnv) doJSONRequest(method, path string, body any, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return rec, c
}

func (env *testEnv) seedProduct(name, price string, stock int) *models.Product {
	env.T.Helper()
	d, err := decimal.NewFromString(price)
	require.NoError(env.T, err)
	p := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       d,
		Stock:       stock,
		CategoryID:  1,
	}
	require.NoError(env.T, env.DB.Create(p).Error)
	return p
}

func (env *testEnv) addToCart(userID, productID, quantity uint) {
	env.T.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]uint{
		"product_id": productID,
		"quantity":   quantity,
	}, userID)
	require.NoError(env.T, env.Cart.Add(c))
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCheckoutHandler_Success(t *testing.T) {
	env := newTestEnv(t)

	a := env.seedProduct("product A", "10.00", 5)
	b := env.seedProduct("product B", "5.50", 1)
	env.addToCart(1, a.ID, 2)
	env.addToCart(1, b.ID, 1)

	rec, c := env.doJSONRequest(http.MethodPost, "/orders/checkout", map[string]string{
		"shipping_address": "1 Main St",
		"payment_method":   "credit_card",
	}, 1)
	require.NoError(t, env.Order.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	assert.Equal(t, "credit_card", order.PaymentMethod)
	require.Len(t, order.Items, 2)

	// the cart is emptied by the checkout
	recCart, cCart := env.doJSONRequest(http.MethodGet, "/cart", nil, 1)
	require.NoError(t, env.Cart.List(cCart))
	var items []repo.CartItemView
	require.NoError(t, json.Unmarshal(recCart.Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/orders/checkout", map[string]string{
		"shipping_address": "1 Main St",
		"payment_method":   "credit_card",
	}, 1)
	require.NoError(t, env.Order.Checkout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestCheckoutHandler_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)

	a := env.seedProduct("product A", "10.00", 5)
	b := env.seedProduct("product B", "5.50", 1)
	env.addToCart(1, a.ID, 2)
	env.addToCart(1, b.ID, 1)

	// stock drops between cart add and checkout
	require.NoError(t, env.DB.Model(&models.Product{}).
		Where("id = ?", b.ID).
		Update("stock", 0).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/orders/checkout", map[string]string{
		"shipping_address": "1 Main St",
		"payment_method":   "credit_card",
	}, 1)
	require.NoError(t, env.Order.Checkout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListOrdersHandler(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("product A", "10.00", 5)
	env.addToCart(1, p.ID, 1)

	rec, c := env.doJSONRequest(http.MethodPost, "/orders/checkout", map[string]string{
		"shipping_address": "1 Main St",
		"payment_method":   "cash",
	}, 1)
	require.NoError(t, env.Order.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	recList, cList := env.doJSONRequest(http.MethodGet, "/orders", nil, 1)
	require.NoError(t, env.Order.List(cList))
	require.Equal(t, http.StatusOK, recList.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)

	// another user sees nothing
	recOther, cOther := env.doJSONRequest(http.MethodGet, "/orders", nil, 2)
	require.NoError(t, env.Order.List(cOther))
	var otherOrders []models.Order
	require.NoError(t, json.Unmarshal(recOther.Body.Bytes(), &otherOrders))
	assert.Empty(t, otherOrders)
}
