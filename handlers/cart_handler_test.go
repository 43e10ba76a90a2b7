package handlers

import (
	"CafeBackend/models"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemIncrementsExistingQuantity(t *testing.T) {
	pizza, found := models.MenuItemByID("1")
	require.True(t, found)

	cart := []models.CartItem{
		{ID: "1", Name: pizza.Name, Price: pizza.Price, Quantity: 2},
	}

	cart = AddItem(cart, pizza)

	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
}

func TestAddItemAppendsNewItemWithQuantityOne(t *testing.T) {
	pizza, _ := models.MenuItemByID("1")
	fries, _ := models.MenuItemByID("4")

	cart := AddItem(nil, pizza)
	cart = AddItem(cart, fries)

	require.Len(t, cart, 2)
	assert.Equal(t, 1, cart[1].Quantity)
	assert.Equal(t, "French Fries", cart[1].Name)
	assert.Equal(t, 4.0, cart[1].Price)
}

func TestAddThenRemoveIsQuantityNeutral(t *testing.T) {
	pizza, _ := models.MenuItemByID("1")
	fries, _ := models.MenuItemByID("4")

	original := []models.CartItem{
		{ID: "1", Name: pizza.Name, Price: pizza.Price, Quantity: 2},
		{ID: "4", Name: fries.Name, Price: fries.Price, Quantity: 1},
	}

	cart := AddItem(append([]models.CartItem(nil), original...), pizza)
	cart = RemoveItem(cart, pizza.ID)

	assert.Equal(t, original, cart)
}

func TestRemoveItemDropsItemAtZeroQuantity(t *testing.T) {
	tea, _ := models.MenuItemByID("5")

	cart := []models.CartItem{
		{ID: "5", Name: tea.Name, Price: tea.Price, Quantity: 1},
	}

	cart = RemoveItem(cart, tea.ID)
	assert.Empty(t, cart)

	//重新加入後以數量1重建
	cart = AddItem(cart, tea)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestRemoveItemUnknownIDLeavesCartUnchanged(t *testing.T) {
	cart := []models.CartItem{
		{ID: "2", Name: "Cheeseburger", Price: 10, Quantity: 2},
	}

	updated := RemoveItem(cart, "99")

	assert.Equal(t, cart, updated)
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, 0.0, TotalPrice(nil))
	assert.Equal(t, 0.0, TotalPrice([]models.CartItem{}))

	cart := []models.CartItem{
		{ID: "1", Name: "Margherita Pizza", Price: 12, Quantity: 2},
		{ID: "4", Name: "French Fries", Price: 4, Quantity: 1},
	}
	assert.Equal(t, 28.0, TotalPrice(cart))
}

func newTestContext(t *testing.T, method string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("UserID", "u1")
	c.Set("Email", "user@example.com")
	return c, w
}

func TestAddToCartHandlerWritesWholeCartBack(t *testing.T) {
	db := newMockStore()
	c, w := newTestContext(t, http.MethodPost, `{"itemID":"1"}`)

	AddToCartHandler(c, db)

	assert.Equal(t, http.StatusOK, w.Code)

	cart, err := LoadCart(context.Background(), db, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "Margherita Pizza", cart[0].Name)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestAddToCartHandlerUnknownMenuItem(t *testing.T) {
	db := newMockStore()
	c, w := newTestContext(t, http.MethodPost, `{"itemID":"99"}`)

	AddToCartHandler(c, db)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, db.docs)
}

func TestDeleteCartItemHandlerMissingItem(t *testing.T) {
	db := newMockStore()
	db.put("carts/u1", []models.CartItem{
		{ID: "2", Name: "Cheeseburger", Price: 10, Quantity: 1},
	})

	c, w := newTestContext(t, http.MethodDelete, "")
	c.Params = gin.Params{{Key: "itemID", Value: "1"}}

	DeleteCartItemHandler(c, db)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCartItemHandlerDecrementsQuantity(t *testing.T) {
	db := newMockStore()
	db.put("carts/u1", []models.CartItem{
		{ID: "2", Name: "Cheeseburger", Price: 10, Quantity: 2},
	})

	c, w := newTestContext(t, http.MethodDelete, "")
	c.Params = gin.Params{{Key: "itemID", Value: "2"}}

	DeleteCartItemHandler(c, db)

	assert.Equal(t, http.StatusOK, w.Code)

	cart, err := LoadCart(context.Background(), db, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}
