package auth

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	//信箱已被註冊
	ErrEmailTaken = errors.New("auth: email already registered")
	//帳號不存在或密碼錯誤
	ErrInvalidCredential = errors.New("auth: invalid email or password")
)

// 已驗證的身分，UID為穩定不變的使用者識別碼
type Identity struct {
	UID   string
	Email string
}

// 身分提供者，帳號密碼儲存於Redis，與應用資料分開管理
type Provider struct {
	rdb redis.Cmdable
}

func NewProvider(rdb redis.Cmdable) *Provider {
	return &Provider{rdb: rdb}
}

func emailKey(email string) string {
	return "auth:emails:" + email
}

func userKey(uid string) string {
	return "auth:users:" + uid
}

// 註冊帳號並發放新的使用者ID
func (p *Provider) SignUp(ctx context.Context, email string, password string) (Identity, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	uid := uuid.New().String()

	//以SetNX佔住信箱，防止重複註冊
	ok, err := p.rdb.SetNX(ctx, emailKey(email), uid, 0).Result()
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrEmailTaken
	}

	err = p.rdb.HSet(ctx, userKey(uid), "email", email, "password", string(hashedPassword)).Err()
	if err != nil {
		//帳號資料寫入失敗時釋放信箱，避免此信箱永遠無法註冊
		if delErr := p.rdb.Del(ctx, emailKey(email)).Err(); delErr != nil {
			log.Printf("釋放信箱註冊失敗 %s: %v", email, delErr)
		}
		return Identity{}, err
	}

	return Identity{UID: uid, Email: email}, nil
}

// 驗證帳號密碼並回傳身分
func (p *Provider) SignIn(ctx context.Context, email string, password string) (Identity, error) {
	uid, err := p.rdb.Get(ctx, emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrInvalidCredential
		}
		return Identity{}, err
	}

	hashedPassword, err := p.rdb.HGet(ctx, userKey(uid), "password").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, ErrInvalidCredential
		}
		return Identity{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}

	return Identity{UID: uid, Email: email}, nil
}
