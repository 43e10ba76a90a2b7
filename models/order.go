package models

import "time"

// 訂單為結帳當下購物車的快照，建立後只有IsCompleted會被修改
type Order struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"userId,omitempty"`
	UserEmail   string     `json:"userEmail"`
	Items       []CartItem `json:"items"`
	Total       float64    `json:"total"`
	Date        time.Time  `json:"date"`
	IsCompleted bool       `json:"isCompleted"`
}
