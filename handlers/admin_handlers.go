package handlers

import (
	"CafeBackend/mailer"
	"CafeBackend/models"
	"CafeBackend/store"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// 查詢所有使用者的未完成訂單，依下單時間新到舊排序
// 每次請求重新查詢，不做訂閱(管理員手動刷新)
func GetPendingOrdersHandler(c *gin.Context, db store.Store) {
	children, err := db.ReadChildren(c, "orders")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢訂單列表失敗",
			"error":   err.Error(),
		})
		return
	}

	pending := make([]models.Order, 0, len(children))
	for key, raw := range children {
		//key格式為{userID}/{orderID}
		parts := strings.SplitN(key, "/", 2)
		if len(parts) != 2 {
			continue
		}

		var order models.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			log.Printf("解析訂單資料失敗 %s: %v", key, err)
			continue
		}
		if order.IsCompleted {
			continue
		}

		order.UserID = parts[0]
		order.ID = parts[1]
		pending = append(pending, order)
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Date.After(pending[j].Date)
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢未完成訂單",
		"orders":  pending,
	})
}

// 完成訂單:更新完成狀態後寄送取餐通知
// 請求必須帶confirm確認欄位，防止誤觸
func CompleteOrderHandler(c *gin.Context, db store.Store, mail *mailer.Client) {
	userID := c.Param("userID")
	orderID := c.Param("orderID")

	var confirmReq struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.BindJSON(&confirmReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}
	if !confirmReq.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "必須確認後才能完成訂單",
		})
		return
	}

	raw, err := db.Read(c, orderPath(userID, orderID))
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

	if order.IsCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "訂單已完成",
		})
		return
	}

	order.IsCompleted = true
	if err := db.Write(c, orderPath(userID, orderID), order); err != nil {
		//更新失敗則訂單維持未完成
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "完成訂單失敗",
			"error":   err.Error(),
		})
		return
	}

	//寄送取餐通知，失敗不影響已更新的完成狀態
	err = mail.Send(c, order.UserEmail, "Your order is ready for pickup!",
		"Your order is ready for pickup! Thank you for using our service.")
	if err != nil {
		log.Printf("寄送取餐通知失敗: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"message": "訂單已完成，但寄送取餐通知失敗",
			"error":   err.Error(),
			"orderID": orderID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "訂單已完成，取餐通知已寄出",
		"orderID": orderID,
	})
}
