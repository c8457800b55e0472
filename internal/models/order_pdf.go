package models

import "time"

// OrderPDF is a fulfillment report attached to an order. Rows are immutable
// once written; an order may accumulate several reports over time.
type OrderPDF struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	OrderID    uint64    `gorm:"not null;index" json:"order_id"`
	FilePath   string    `gorm:"type:varchar(512);not null" json:"-"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Relations
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}
