package models

import "time"

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting confirmation
	OrderStatusProcessing OrderStatus = "processing" // confirmed, being prepared
	OrderStatusInDelivery OrderStatus = "inDelivery" // handed to a deliverer
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the items
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before delivery

	PaymentMethodCOD  PaymentMethod = "COD"
	PaymentMethodSlip PaymentMethod = "Payment Slip"
)

type Order struct {
	OrderID         uint          `gorm:"primaryKey;autoIncrement" json:"order_id"`
	OrderRef        string        `gorm:"uniqueIndex" json:"order_ref"`
	UserID          uint          `gorm:"not null;index" json:"user_id"`
	Email           string        `json:"email"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress string        `json:"shipping_address"`
	TotalPrice      float64       `json:"total_price"`
	PaymentMethod   PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentSlip     string        `json:"payment_slip,omitempty"`
	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"` // unit price at purchase time
}

// ValidOrderStatus reports whether s names a known order status.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusInDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
