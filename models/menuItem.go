package models

// 菜單品項(靜態資料，不提供修改)
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image"`
}

var MenuItems = []MenuItem{
	{
		ID:          "1",
		Name:        "Margherita Pizza",
		Price:       12,
		Description: "Classic pizza with tomato sauce, mozzarella, and basil",
		ImageURL:    "/placeholder.svg?height=200&width=200",
	},
	{
		ID:          "2",
		Name:        "Cheeseburger",
		Price:       10,
		Description: "Juicy beef patty with cheese, lettuce, and tomato",
		ImageURL:    "/placeholder.svg?height=200&width=200",
	},
	{
		ID:          "3",
		Name:        "Caesar Salad",
		Price:       8,
		Description: "Fresh romaine lettuce with Caesar dressing and croutons",
		ImageURL:    "/placeholder.svg?height=200&width=200",
	},
	{
		ID:          "4",
		Name:        "French Fries",
		Price:       4,
		Description: "Crispy golden fries seasoned with salt",
		ImageURL:    "/placeholder.svg?height=200&width=200",
	},
	{
		ID:          "5",
		Name:        "Iced Tea",
		Price:       3,
		Description: "Refreshing iced tea with a slice of lemon",
		ImageURL:    "/placeholder.svg?height=200&width=200",
	},
}

// 以ID查詢菜單品項
func MenuItemByID(id string) (MenuItem, bool) {
	for _, item := range MenuItems {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}
