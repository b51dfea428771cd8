package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop/storefront/internal/repo"
)

func TestAddToCartHandler(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("widget", "10.00", 5)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]uint{
		"product_id": p.ID,
		"quantity":   2,
	}, 1)
	require.NoError(t, env.Cart.Add(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var view repo.CartItemView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, p.ID, view.ProductID)
	assert.EqualValues(t, 2, view.Quantity)
	assert.Equal(t, "widget", view.ProductName)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestAddToCartHandler_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]uint{
		"product_id": 42,
		"quantity":   1,
	}, 1)
	require.NoError(t, env.Cart.Add(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCartHandler_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("widget", "10.00", 1)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]uint{
		"product_id": p.ID,
		"quantity":   2,
	}, 1)
	require.NoError(t, env.Cart.Add(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestAddToCartHandler_Validation(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("widget", "10.00", 5)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart/add", map[string]uint{
		"product_id": p.ID,
		"quantity":   0,
	}, 1)
	require.NoError(t, env.Cart.Add(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveFromCartHandler(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("widget", "10.00", 5)
	env.addToCart(1, p.ID, 1)

	recList, cList := env.doJSONRequest(http.MethodGet, "/cart", nil, 1)
	require.NoError(t, env.Cart.List(cList))
	var items []repo.CartItemView
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &items))
	require.Len(t, items, 1)

	rec, c := env.doJSONRequest(http.MethodDelete, "/cart/1", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.Remove(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// repeated delete reports not found
	rec, c = env.doJSONRequest(http.MethodDelete, "/cart/1", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.Remove(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveFromCartHandler_OtherUsersItem(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("widget", "10.00", 5)
	env.addToCart(1, p.ID, 1)

	rec, c := env.doJSONRequest(http.MethodDelete, "/cart/1", nil, 2)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Cart.Remove(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
