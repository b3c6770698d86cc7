package models

import "time"

type Brand struct {
	BrandID     uint      `gorm:"primaryKey;autoIncrement" json:"brand_id"`
	Name        string    `gorm:"unique;not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
