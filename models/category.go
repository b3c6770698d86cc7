package models

import "time"

type Category struct {
	CategoryID  uint      `gorm:"primaryKey;autoIncrement" json:"category_id"`
	Name        string    `gorm:"unique;not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
