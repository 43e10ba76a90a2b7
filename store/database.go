package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 文件資料表，每個路徑對應一份JSON資料
type Document struct {
	Path      string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"type:json"`
	UpdatedAt time.Time
}

// Database以MySQL儲存文件，並透過Redis發布路徑變更通知
type Database struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDatabase(db *gorm.DB, rdb *redis.Client) *Database {
	return &Database{db: db, rdb: rdb}
}

func channelName(path string) string {
	return "store:" + path
}

func (d *Database) Read(ctx context.Context, path string) (json.RawMessage, error) {
	var doc Document
	err := d.db.WithContext(ctx).First(&doc, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(doc.Value), nil
}

func (d *Database) Write(ctx context.Context, path string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	doc := Document{Path: path, Value: payload, UpdatedAt: time.Now()}
	err = d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return err
	}

	d.publish(ctx, path, string(payload))
	return nil
}

func (d *Database) Delete(ctx context.Context, path string) error {
	err := d.db.WithContext(ctx).Delete(&Document{}, "path = ?", path).Error
	if err != nil {
		return err
	}

	d.publish(ctx, path, "null")
	return nil
}

// 通知失敗不影響已完成的寫入，只記錄log
func (d *Database) publish(ctx context.Context, path string, payload string) {
	if err := d.rdb.Publish(ctx, channelName(path), payload).Err(); err != nil {
		log.Printf("無法發布路徑變更通知 %s: %v", path, err)
	}
}

func (d *Database) ReadChildren(ctx context.Context, parent string) (map[string]json.RawMessage, error) {
	prefix := parent + "/"
	var docs []Document
	err := d.db.WithContext(ctx).Where("path LIKE ?", prefix+"%").Find(&docs).Error
	if err != nil {
		return nil, err
	}

	children := make(map[string]json.RawMessage, len(docs))
	for _, doc := range docs {
		children[strings.TrimPrefix(doc.Path, prefix)] = json.RawMessage(doc.Value)
	}
	return children, nil
}

func (d *Database) Subscribe(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	//同時訂閱路徑本身與其子路徑的頻道
	sub := d.rdb.PSubscribe(ctx, channelName(path), channelName(path)+"/*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	current, err := d.Read(ctx, path)
	if errors.Is(err, ErrNotFound) {
		current = json.RawMessage("null")
	} else if err != nil {
		_ = sub.Close()
		return nil, err
	}

	updates := make(chan json.RawMessage, 1)
	updates <- current

	go func() {
		defer close(updates)
		defer func() { _ = sub.Close() }()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case updates <- json.RawMessage(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}

func (d *Database) GenerateKey(parent string) string {
	return uuid.New().String()
}
