package handlers

import (
	"CafeBackend/models"
	"CafeBackend/store"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func cartPath(userID string) string {
	return "carts/" + userID
}

// 讀取購物車，路徑不存在或值為null時回傳空購物車
func LoadCart(ctx context.Context, db store.Store, userID string) ([]models.CartItem, error) {
	raw, err := db.Read(ctx, cartPath(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var cart []models.CartItem
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// 相同品項數量加一，否則以數量1加入購物車
func AddItem(cart []models.CartItem, item models.MenuItem) []models.CartItem {
	for i := range cart {
		if cart[i].ID == item.ID {
			cart[i].Quantity++
			return cart
		}
	}
	return append(cart, models.CartItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
}

// 數量減一，小於等於0則整筆移除
func RemoveItem(cart []models.CartItem, itemID string) []models.CartItem {
	updated := make([]models.CartItem, 0, len(cart))
	for _, cartItem := range cart {
		if cartItem.ID == itemID {
			cartItem.Quantity--
		}
		if cartItem.Quantity > 0 {
			updated = append(updated, cartItem)
		}
	}
	return updated
}

// 計算購物車總金額
func TotalPrice(cart []models.CartItem) float64 {
	total := 0.0
	for _, item := range cart {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func AddToCartHandler(c *gin.Context, db store.Store) {
	var cartItemReq struct {
		ItemID string `json:"itemID" binding:"required"`
	}
	if err := c.BindJSON(&cartItemReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	//查詢菜單品項
	menuItem, found := models.MenuItemByID(cartItemReq.ItemID)
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "查無此菜單品項",
		})
		return
	}

	cart, err := LoadCart(c, db, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
			"error":   err.Error(),
		})
		return
	}

	//將整份購物車寫回(last-writer-wins，不合併同時寫入)
	cart = AddItem(cart, menuItem)
	if err := db.Write(c, cartPath(userID.(string)), cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增品項至購物車失敗",
			"error":   err.Error(),
		})
		return
	}

	quantity := 0
	for _, cartItem := range cart {
		if cartItem.ID == menuItem.ID {
			quantity = cartItem.Quantity
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功新增品項至購物車",
		"itemID":   menuItem.ID,
		"quantity": quantity,
	})
	return
}

// 減少購物車品項數量，歸零則整筆移除
func DeleteCartItemHandler(c *gin.Context, db store.Store) {
	itemID := c.Param("itemID")

	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	cart, err := LoadCart(c, db, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
			"error":   err.Error(),
		})
		return
	}

	exists := false
	for _, cartItem := range cart {
		if cartItem.ID == itemID {
			exists = true
			break
		}
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "購物車沒有此品項",
		})
		return
	}

	cart = RemoveItem(cart, itemID)
	if err := db.Write(c, cartPath(userID.(string)), cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除購物車品項錯誤",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除購物車品項",
		"itemID":  itemID,
	})
	return
}

func GetCartHandler(c *gin.Context, db store.Store) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	cart, err := LoadCart(c, db, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "成功查詢購物車",
		"cartItemsData": cart,
		"total":         TotalPrice(cart),
	})
}

// 訂閱購物車變更並以SSE推送，連線關閉即取消訂閱
func StreamCartHandler(c *gin.Context, db store.Store) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	updates, err := db.Subscribe(c.Request.Context(), cartPath(userID.(string)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "訂閱購物車失敗",
			"error":   err.Error(),
		})
		return
	}

	c.Stream(func(w io.Writer) bool {
		update, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("cart", string(update))
		return true
	})
}
