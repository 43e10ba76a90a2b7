package middleware

import (
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

// 檢查是否有管理員權限，沒有則中止請求
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("IsAdmin")
		if !exists {
			log.Println("無法取得IsAdmin")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "錯誤",
			})
			c.Abort()
			return
		}
		if isAdmin != true {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "沒有權限",
			})
			c.Abort()
			return
		}

		c.Next()
		return
	}
}
