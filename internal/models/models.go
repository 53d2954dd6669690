package models

type User struct {
	ID           string `gorm:"primaryKey;size:36"       json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Item struct {
	ID          string  `gorm:"primaryKey;size:36"       json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Category    string  `gorm:"index"                    json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// CartEntry is what carts are made of regardless of backend: one line
// per item, quantity always >= 1 once stored.
type CartEntry struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// CartRow is the relational shape of a CartEntry for the gorm backend.
type CartRow struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"                     json:"-"`
	UserID string `gorm:"uniqueIndex:idx_user_item;size:36;not null"   json:"-"`
	ItemID string `gorm:"uniqueIndex:idx_user_item;size:36;not null"   json:"itemId"`
	Qty    int    `gorm:"not null;check:qty>0"                         json:"qty"`
}

func (CartRow) TableName() string {
	return "cart_items"
}
