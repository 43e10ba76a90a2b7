package handlers

import (
	"CafeBackend/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 查詢菜單列表(靜態資料)
func GetMenuHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "成功查詢菜單",
		"menuItems": models.MenuItems,
	})
}
