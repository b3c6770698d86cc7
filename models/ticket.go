package models

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

type Ticket struct {
	TicketID  uint          `gorm:"primaryKey;autoIncrement" json:"ticket_id"`
	UserID    uint          `gorm:"index;not null" json:"user_id"`
	Subject   string        `gorm:"not null" json:"subject"`
	Message   string        `gorm:"not null" json:"message"`
	Status    TicketStatus  `gorm:"type:VARCHAR(20);default:'open'" json:"status"`
	Replies   []TicketReply `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"replies"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type TicketReply struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketID  uint      `gorm:"index" json:"ticket_id"`
	UserID    uint      `gorm:"not null" json:"user_id"` // replying user (customer or supporter)
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
