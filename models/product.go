package models

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

type Product struct {
	ProductID   uint          `gorm:"primaryKey;autoIncrement" json:"product_id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	Status      ProductStatus `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	Image       string        `json:"image"`
	CategoryID  uint          `gorm:"index" json:"category_id"`
	Category    *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BrandID     uint          `gorm:"index" json:"brand_id"`
	Brand       *Brand        `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Stock       int           `json:"stock"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
