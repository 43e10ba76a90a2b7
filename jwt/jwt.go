package jwt

import (
	"context"
	"crypto/rsa"
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	privateKeyPath = "jwt/private_key.pem"
	publicKeyPath  = "jwt/public_key.pem"
)

const loginTokenPrefix = "logintokens:"

// Token已登出或不存在
var ErrTokenRevoked = errors.New("jwt: token revoked or unknown")

// 讀取私鑰
func loadPrivateKey() (*rsa.PrivateKey, error) {
	keyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// 讀取公鑰
func loadPublicKey() (*rsa.PublicKey, error) {
	keyBytes, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// 生成JWT Token，只攜帶使用者ID和信箱
// 管理員身分每次請求重新判斷，不放進Token以免過期前身分改變
func GenerateToken(userID string, email string, expTime int64) (string, error) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		return "", err
	}

	token := jwt.New(jwt.SigningMethodRS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userID"] = userID
	claims["email"] = email
	claims["exp"] = expTime

	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// 登入時記錄Token至Redis，到期自動刪除
func StoreToken(ctx context.Context, rdb *redis.Client, tokenString string, expirationTime time.Time) error {
	return rdb.Set(ctx, loginTokenPrefix+tokenString, "1", time.Until(expirationTime)).Err()
}

// 登出時刪除Token，找不到回傳ErrTokenRevoked
func RevokeToken(ctx context.Context, rdb *redis.Client, tokenString string) error {
	deleted, err := rdb.Del(ctx, loginTokenPrefix+tokenString).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrTokenRevoked
	}
	return nil
}

// 驗證JWT Token並回傳使用者ID和信箱
func VerifyToken(ctx context.Context, tokenString *string, rdb *redis.Client) (string, string, error) {
	publicKey, err := loadPublicKey()
	if err != nil {
		return "", "", err
	}

	token, err := jwt.Parse(*tokenString, func(token *jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		return "", "", err
	}

	if !token.Valid {
		return "", "", jwt.ErrTokenSignatureInvalid
	}

	//從Redis檢查Token是否已登出
	exists, err := rdb.Exists(ctx, loginTokenPrefix+*tokenString).Result()
	if err != nil {
		log.Println(err)
		return "", "", err
	}
	if exists == 0 {
		return "", "", ErrTokenRevoked
	}

	claims := token.Claims.(jwt.MapClaims)
	userID := claims["userID"].(string)
	email := claims["email"].(string)

	return userID, email, nil
}
