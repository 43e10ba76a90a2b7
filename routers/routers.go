package routers

import (
	"CafeBackend/adminutil"
	"CafeBackend/auth"
	"CafeBackend/handlers"
	"CafeBackend/mailer"
	"CafeBackend/middleware"
	"CafeBackend/store"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRouters(db store.Store, rdb *redis.Client, provider *auth.Provider, mail *mailer.Client, admins adminutil.AllowList) *gin.Engine {
	//建立Gin路由器
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	if err := router.SetTrustedProxies(nil); err != nil {
		panic("無法設定信任代理")
	}

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	////無須權限，使用中間件解析登入身分
	router.Use(middleware.AuthMiddleware(rdb, db, admins))
	{
		//查詢菜單列表
		router.GET("/api/v1/menu", func(context *gin.Context) {
			handlers.GetMenuHandler(context)
		})
		//註冊帳號
		router.POST("/api/v1/register", func(context *gin.Context) {
			handlers.RegisterHandler(context, db, provider, admins)
		})
		//登入帳號
		router.POST("/api/v1/login", func(context *gin.Context) {
			handlers.LoginHandler(context, rdb, provider)
		})

		////需要登入，使用中間件檢查是否登入
		loginRequired := router.Group("/api/v1/user")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			//查詢使用者資料
			loginRequired.GET("/profile", func(context *gin.Context) {
				handlers.GetUserProfileHandler(context, db)
			})
			//修改使用者資料
			loginRequired.PATCH("/profile/edit", func(context *gin.Context) {
				handlers.UpdateUserProfileHandler(context, db)
			})
			//查詢購物車品項
			loginRequired.GET("/carts", func(context *gin.Context) {
				handlers.GetCartHandler(context, db)
			})
			//訂閱購物車變更(SSE)
			loginRequired.GET("/carts/stream", func(context *gin.Context) {
				handlers.StreamCartHandler(context, db)
			})
			//新增品項至購物車
			loginRequired.POST("/carts/add", func(context *gin.Context) {
				handlers.AddToCartHandler(context, db)
			})
			//減少購物車品項數量
			loginRequired.DELETE("/carts/:itemID", func(context *gin.Context) {
				handlers.DeleteCartItemHandler(context, db)
			})
			//送出訂單並清除購物車
			loginRequired.POST("/orders", func(context *gin.Context) {
				handlers.PlaceOrderHandler(context, db, mail)
			})
			//查詢訂單列表
			loginRequired.GET("/orders", func(context *gin.Context) {
				handlers.GetOrderListHandler(context, db)
			})
			//訂閱訂單變更(SSE)
			loginRequired.GET("/orders/stream", func(context *gin.Context) {
				handlers.StreamOrdersHandler(context, db)
			})
			//以過往訂單覆蓋購物車
			loginRequired.POST("/orders/:orderID/reorder", func(context *gin.Context) {
				handlers.ReorderHandler(context, db)
			})
			//登出
			loginRequired.POST("/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, rdb)
			})
		}

		////需要admin身分，使用中間件檢查是否登入及admin權限
		adminRequired := router.Group("/api/v1/admin")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			//查詢所有未完成訂單
			adminRequired.GET("/orders", func(context *gin.Context) {
				handlers.GetPendingOrdersHandler(context, db)
			})
			//完成訂單並寄送取餐通知
			adminRequired.POST("/orders/:userID/:orderID/complete", func(context *gin.Context) {
				handlers.CompleteOrderHandler(context, db, mail)
			})
		}
	}

	return router
}
