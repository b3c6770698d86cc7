package models

import "time"

type Role string
type UserStatus string

const (
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
	RoleSupporter Role = "supporter"
	RoleManager   Role = "manager"
	RoleDeliverer Role = "deliverer"

	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	UserID     uint       `gorm:"primaryKey;autoIncrement" json:"user_id"`
	FirstName  string     `gorm:"not null" json:"firstname"`
	LastName   string     `json:"lastname"`
	Email      string     `gorm:"unique;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	ProfilePic string     `json:"profilePic"`
	Role       Role       `gorm:"type:VARCHAR(20);default:'customer'" json:"role"`
	Status     UserStatus `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleCustomer, RoleAdmin, RoleSupporter, RoleManager, RoleDeliverer:
		return true
	}
	return false
}
