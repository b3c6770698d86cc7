package models

import "time"

type Cart struct {
	CartID     uint       `gorm:"primaryKey;autoIncrement" json:"cart_id"`
	UserID     uint       `gorm:"uniqueIndex" json:"user_id"` // one cart per user
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CartID    uint      `gorm:"index" json:"-"`
	ProductID uint      `gorm:"not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// ItemCount is the quantity sum across the cart, used for the header badge.
func (c Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
