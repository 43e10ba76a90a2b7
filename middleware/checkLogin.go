package middleware

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// 檢查是否有登入，沒有則中止請求
// UserID和Email由AuthMiddleware一起寫入，缺一即視為未登入
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, hasUserID := c.Get("UserID")
		_, hasEmail := c.Get("Email")
		if !hasUserID || !hasEmail {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "尚未登入",
			})
			c.Abort()
			return
		}

		c.Next()
		return
	}
}
