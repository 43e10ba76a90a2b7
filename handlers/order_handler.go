package handlers

import (
	"CafeBackend/mailer"
	"CafeBackend/models"
	"CafeBackend/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func ordersPath(userID string) string {
	return "orders/" + userID
}

func orderPath(userID string, orderID string) string {
	return ordersPath(userID) + "/" + orderID
}

// 訂單確認信內容，逐項列出品項和金額
func ConfirmationEmailBody(order models.Order) string {
	var b strings.Builder
	b.WriteString("Thank you for your order!\n\nOrder Details:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x %d: $%.2f\n", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: $%.2f\n\nThank you for choosing Gourmet Express!", order.Total)
	return b.String()
}

// 送出訂單:快照購物車→寫入訂單→清除購物車→寄送確認信
// 訂單寫入失敗整筆中止；之後的步驟失敗訂單仍然成立，只回報不重試
func PlaceOrderHandler(c *gin.Context, db store.Store, mail *mailer.Client) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}
	email := c.GetString("Email")

	cart, err := LoadCart(c, db, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
			"error":   err.Error(),
		})
		return
	}
	if len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "購物車是空的",
		})
		return
	}

	order := models.Order{
		UserEmail:   email,
		Items:       cart,
		Total:       TotalPrice(cart),
		Date:        time.Now().UTC(),
		IsCompleted: false,
	}

	orderID := db.GenerateKey(ordersPath(userID.(string)))
	if err := db.Write(c, orderPath(userID.(string), orderID), order); err != nil {
		//訂單寫入失敗則整筆中止，購物車維持原狀
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "提交訂單失敗",
			"error":   err.Error(),
		})
		log.Printf("提交訂單失敗 Error: %s, %v", err.Error(), order.Items)
		return
	}

	if err := db.Delete(c, cartPath(userID.(string))); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "訂單已送出，但清除購物車失敗",
			"error":   err.Error(),
			"orderID": orderID,
		})
		return
	}

	//寄送訂單確認信，失敗不影響已成立的訂單
	err = mail.Send(c, email, "Order Confirmation - Gourmet Express", ConfirmationEmailBody(order))
	if err != nil {
		log.Printf("寄送訂單確認信失敗: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"message": "訂單已送出，但寄送確認信失敗",
			"error":   err.Error(),
			"orderID": orderID,
			"total":   order.Total,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "訂單已送出，確認信已寄出",
		"orderID": orderID,
		"total":   order.Total,
	})
}

// 讀取使用者所有訂單並依下單時間新到舊排序
func loadUserOrders(ctx context.Context, db store.Store, userID string) ([]models.Order, error) {
	children, err := db.ReadChildren(ctx, ordersPath(userID))
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(children))
	for orderID, raw := range children {
		var order models.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			log.Printf("解析訂單資料失敗 %s: %v", orderID, err)
			continue
		}
		order.ID = orderID
		order.UserID = userID
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders, nil
}

func GetOrderListHandler(c *gin.Context, db store.Store) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	orders, err := loadUserOrders(c, db, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢訂單列表失敗",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功查詢訂單列表",
		"orderList": orders,
	})
}

// 訂閱訂單變更並以SSE推送完整訂單列表
func StreamOrdersHandler(c *gin.Context, db store.Store) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	updates, err := db.Subscribe(c.Request.Context(), ordersPath(userID.(string)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "訂閱訂單失敗",
			"error":   err.Error(),
		})
		return
	}

	c.Stream(func(w io.Writer) bool {
		_, ok := <-updates
		if !ok {
			return false
		}
		//收到變更後重新讀取整份列表
		orders, err := loadUserOrders(c.Request.Context(), db, userID.(string))
		if err != nil {
			log.Printf("查詢訂單列表失敗: %v", err)
			return false
		}
		payload, err := json.Marshal(orders)
		if err != nil {
			log.Printf("序列化訂單列表失敗: %v", err)
			return false
		}
		c.SSEvent("orders", string(payload))
		return true
	})
}

// 以過往訂單的品項整份覆蓋購物車(取代而非合併)
func ReorderHandler(c *gin.Context, db store.Store) {
	orderID := c.Param("orderID")

	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	raw, err := db.Read(c, orderPath(userID.(string), orderID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "查無此訂單",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢訂單失敗",
			"error":   err.Error(),
		})
		return
	}

	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "解析訂單資料失敗",
			"error":   err.Error(),
		})
		return
	}

	if err := db.Write(c, cartPath(userID.(string)), order.Items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "覆蓋購物車失敗",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "成功將過往訂單品項加入購物車",
		"cartItemsData": order.Items,
	})
}
