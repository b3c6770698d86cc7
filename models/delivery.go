package models

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusAssigned  DeliveryStatus = "assigned"
	DeliveryStatusPickedUp  DeliveryStatus = "picked_up"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

type Delivery struct {
	DeliveryID        uint           `gorm:"primaryKey;autoIncrement" json:"delivery_id"`
	OrderID           uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID            uint           `gorm:"index;not null" json:"user_id"`
	Address           string         `json:"address"`
	DeliveryStatus    DeliveryStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"delivery_status"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time     `json:"actual_delivery,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ValidDeliveryStatus reports whether s names a known delivery status.
func ValidDeliveryStatus(s string) bool {
	switch DeliveryStatus(s) {
	case DeliveryStatusPending, DeliveryStatusAssigned, DeliveryStatusPickedUp,
		DeliveryStatusInTransit, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}
