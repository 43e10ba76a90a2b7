package models

// 購物車品項，數量永遠大於0，數量歸零的品項直接移除不儲存
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
