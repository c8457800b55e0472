package dto

import (
	"time"

	"github.com/Entelsac/ENTEL-SAC/internal/models"
)

// OrderDTO represents an order in API responses
type OrderDTO struct {
	ID             uint64             `json:"id"`
	ClientUsername string             `json:"client_username"`
	Phone          string             `json:"phone"`
	Message        string             `json:"message"`
	Status         models.OrderStatus `json:"status"`
	AssignedTo     string             `json:"assigned_to"`
	CreatedAt      time.Time          `json:"created_at"`
	PDFs           []OrderPDFDTO      `json:"pdfs,omitempty"`
}

// OrderPDFDTO represents an attached report in API responses. The storage
// path stays server-side; callers download through the pdf id.
type OrderPDFDTO struct {
	ID         uint64    `json:"id"`
	OrderID    uint64    `json:"order_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// OrderListResponse represents a paginated list of orders
type OrderListResponse struct {
	Orders []OrderDTO `json:"orders"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
	Total  int64      `json:"total"`
}

// DashboardDTO represents the landing summary
type DashboardDTO struct {
	Credits      int64      `json:"credits"`
	OrdersUsed   int64      `json:"orders_used"`
	RecentOrders []OrderDTO `json:"recent_orders"`
}

// ToOrderDTO converts an Order model to OrderDTO
func ToOrderDTO(order models.Order) OrderDTO {
	return OrderDTO{
		ID:             order.ID,
		ClientUsername: order.ClientUsername,
		Phone:          order.Phone,
		Message:        order.Message,
		Status:         order.Status,
		AssignedTo:     order.AssignedTo,
		CreatedAt:      order.CreatedAt,
	}
}

// ToOrderDTOs converts a slice of orders
func ToOrderDTOs(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = ToOrderDTO(order)
	}
	return dtos
}

// ToOrderPDFDTO converts an OrderPDF model to OrderPDFDTO
func ToOrderPDFDTO(pdf models.OrderPDF) OrderPDFDTO {
	return OrderPDFDTO{
		ID:         pdf.ID,
		OrderID:    pdf.OrderID,
		UploadedAt: pdf.UploadedAt,
	}
}

// ToOrderPDFDTOs converts a slice of pdfs
func ToOrderPDFDTOs(pdfs []models.OrderPDF) []OrderPDFDTO {
	dtos := make([]OrderPDFDTO, len(pdfs))
	for i, pdf := range pdfs {
		dtos[i] = ToOrderPDFDTO(pdf)
	}
	return dtos
}
