package store

import (
	"context"
	"encoding/json"
	"errors"
)

// 路徑上沒有資料
var ErrNotFound = errors.New("store: path not found")

// 文件儲存介面，以階層路徑存取JSON資料
// 使用的路徑: users/{id}、carts/{id}、orders/{id}/{orderId}
type Store interface {
	//讀取路徑上的資料，不存在回傳ErrNotFound
	Read(ctx context.Context, path string) (json.RawMessage, error)
	//寫入整份資料至路徑(last-writer-wins，不合併)
	Write(ctx context.Context, path string, value any) error
	//刪除路徑上的資料
	Delete(ctx context.Context, path string) error
	//讀取parent底下所有子路徑的資料，key為去除parent前綴的相對路徑
	ReadChildren(ctx context.Context, parent string) (map[string]json.RawMessage, error)
	//訂閱路徑及其子路徑的變更，訂閱後先收到目前的值(不存在則為null)
	//取消ctx即停止訂閱並關閉channel
	Subscribe(ctx context.Context, path string) (<-chan json.RawMessage, error)
	//產生parent底下唯一的子路徑key
	GenerateKey(parent string) string
}
