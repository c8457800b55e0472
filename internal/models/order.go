package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusClaimed   OrderStatus = "claimed"
	OrderStatusFulfilled OrderStatus = "fulfilled"
)

type Order struct {
	ID             uint64      `gorm:"primarykey" json:"id"`
	ClientUsername string      `gorm:"type:varchar(255);not null;index" json:"client_username"`
	Phone          string      `gorm:"type:varchar(50);not null" json:"phone"`
	Message        string      `gorm:"type:text" json:"message"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AssignedTo     string      `gorm:"type:varchar(255);not null;default:''" json:"assigned_to"`
	CreatedAt      time.Time   `json:"created_at"`

	// Relations
	PDFs []OrderPDF `gorm:"foreignKey:OrderID" json:"pdfs,omitempty"`
}
