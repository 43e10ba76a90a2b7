package handlers

import (
	"CafeBackend/adminutil"
	"CafeBackend/auth"
	"CafeBackend/jwt"
	"CafeBackend/models"
	"CafeBackend/store"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 檢查信箱是否合法
func ValidateEmail(email string) bool {
	pattern := "^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\\.[a-zA-Z0-9-.]+$"
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// 檢查密碼是否合法
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isUpper   = false
		isLower   = false
		isNumber  = false
		isSpecial = false
		isSpace   = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsUpper(s):
			isUpper = true
		case unicode.IsLower(s):
			isLower = true
		case unicode.IsDigit(s):
			isNumber = true
		case unicode.IsPunct(s) || unicode.IsSymbol(s):
			isSpecial = true
		default:
		}
	}

	return isUpper && isLower && isNumber && isSpecial && !isSpace
}

func userPath(userID string) string {
	return "users/" + userID
}

// 註冊帳號並建立使用者資料
func RegisterHandler(c *gin.Context, db store.Store, provider *auth.Provider, admins adminutil.AllowList) {
	var registerReq struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
	}
	if err := c.BindJSON(&registerReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//檢查信箱是否合法
	if !ValidateEmail(registerReq.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:不合法的信箱",
		})
		return
	}

	//檢查密碼是否合法
	if !ValidatePassword(registerReq.Password) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:不合法的密碼",
		})
		return
	}

	//向身分提供者註冊帳號
	identity, err := provider.SignUp(c, registerReq.Email, registerReq.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "註冊失敗:信箱已被使用",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "註冊失敗",
			"error":   err.Error(),
		})
		return
	}

	//建立使用者資料，註冊當下以名單判斷管理員身分
	profile := models.UserProfile{
		Email:      identity.Email,
		FirstName:  registerReq.FirstName,
		LastName:   registerReq.LastName,
		GradeLevel: "",
		IsAdmin:    admins.IsAdmin(identity.Email),
	}
	if err := db.Write(c, userPath(identity.UID), profile); err != nil {
		//帳號已建立但使用者資料寫入失敗，登入時會退回名單判斷
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法儲存使用者資料至資料庫",
			"error":   err.Error(),
		})
		return
	}

	//成功註冊
	c.JSON(http.StatusCreated, gin.H{
		"message": "使用者已成功註冊",
		"email":   identity.Email,
	})
	return
}

func LoginHandler(c *gin.Context, rdb *redis.Client, provider *auth.Provider) {
	//檢查是否已經登入
	if _, ok := c.Get("UserID"); ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "已經登入",
		})
		return
	}

	//從請求擷取信箱和密碼
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//驗證帳號密碼，錯誤時不透露細節
	identity, err := provider.SignIn(c, loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredential) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "信箱或密碼錯誤",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "登入失敗",
			"error":   err.Error(),
		})
		return
	}

	//生成JWT Token
	tokenExpiredTime := time.Now().Add(time.Hour * 24)
	token, err := jwt.GenerateToken(identity.UID, identity.Email, tokenExpiredTime.Unix())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "生成JWT Token錯誤",
			"error":   err.Error(),
		})
		return
	}

	//儲存LoginToken
	err = jwt.StoreToken(c, rdb, token, tokenExpiredTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "儲存Login Token失敗",
			"error":   err.Error(),
		})
		return
	}

	//成功登入 回傳Token和成功訊息
	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"message": "成功登入",
	})
}

func LogOutHandler(c *gin.Context, rdb *redis.Client) {
	token, exists := c.Get("Token")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "無法取得Token",
		})
		return
	}

	//刪除此LoginToken
	err := jwt.RevokeToken(c, rdb, token.(string))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenRevoked) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "找不到此token或已登出",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "登出失敗",
			"error":   err.Error(),
		})
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "成功登出",
	})
	return
}

// 查詢使用者資料
func GetUserProfileHandler(c *gin.Context, db store.Store) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	//嘗試查詢使用者資料
	raw, err := db.Read(c, userPath(userID.(string)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "查無使用者資料",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢使用者資料失敗",
			"error":   err.Error(),
		})
		return
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "解析使用者資料失敗",
			"error":   err.Error(),
		})
		return
	}

	//成功查詢使用者資料
	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢使用者資料",
		"user":    profile,
	})
}

// 變更使用者資料
func UpdateUserProfileHandler(c *gin.Context, db store.Store) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	raw, err := db.Read(c, userPath(userID.(string)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "發生錯誤:無法取得使用者資料",
			"error":   err.Error(),
		})
		return
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "解析使用者資料失敗",
			"error":   err.Error(),
		})
		return
	}

	var newProfileData struct {
		FirstName  *string `json:"firstName"`
		LastName   *string `json:"lastName"`
		GradeLevel *string `json:"gradeLevel"`
	}
	if err := c.ShouldBindJSON(&newProfileData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//如果使用者有提供資料則覆蓋(包含空字串)
	if newProfileData.FirstName != nil {
		profile.FirstName = *newProfileData.FirstName
	}
	if newProfileData.LastName != nil {
		profile.LastName = *newProfileData.LastName
	}
	if newProfileData.GradeLevel != nil {
		profile.GradeLevel = *newProfileData.GradeLevel
	}

	if err := db.Write(c, userPath(userID.(string)), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功修改使用者資料",
	})
}
