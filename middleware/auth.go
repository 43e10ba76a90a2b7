package middleware

import (
	"CafeBackend/adminutil"
	"CafeBackend/jwt"
	"CafeBackend/models"
	"CafeBackend/store"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func AuthMiddleware(rdb *redis.Client, db store.Store, admins adminutil.AllowList) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" {
			c.Header("Authorization", "")
			c.Next()
			return
		}

		//如Token不合法或錯誤則回傳空Authorization
		userID, email, err := jwt.VerifyToken(c, &token, rdb)
		if err != nil {
			log.Printf("無法驗證Token: %v\n", err)
			c.Header("Authorization", "")
			c.Next()
			return
		}

		isAdmin := ResolveAdmin(c, db, userID, email, admins)

		c.Header("Authorization", authHeader)
		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("Email", email)
		c.Set("IsAdmin", isAdmin)
		c.Next()
		return
	}
}

// 每次請求重新判斷管理員身分
// 讀取使用者資料失敗或不存在時，退回名單判斷
func ResolveAdmin(ctx context.Context, db store.Store, userID string, email string, admins adminutil.AllowList) bool {
	raw, err := db.Read(ctx, "users/"+userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("讀取使用者資料失敗: %v", err)
		}
		return admins.IsAdmin(email)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.Printf("解析使用者資料失敗: %v", err)
		return admins.IsAdmin(email)
	}

	return profile.IsAdmin || admins.IsAdmin(email)
}
