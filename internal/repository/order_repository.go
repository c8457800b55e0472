package repository

import (
	"errors"
	"fmt"

	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientCredit is returned when a debit guard fails inside the
	// order-creation transaction. Nothing is written in that case.
	ErrInsufficientCredit = errors.New("order repository: insufficient credit")
)

// GormOrderRepository is a GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateWithDebit inserts the order and debits the client atomically. The
// debit is a conditional UPDATE guarded by the current balance, so two
// concurrent creations can never drive the balance negative.
func (r *GormOrderRepository) CreateWithDebit(order *models.Order, clientUsername string, cost int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if cost > 0 {
			res := tx.Model(&models.User{}).
				Where("username = ? AND credits >= ?", clientUsername, cost).
				Update("credits", gorm.Expr("credits - ?", cost))
			if res.Error != nil {
				return fmt.Errorf("failed to debit credits: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientCredit
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
}

// FindByID finds an order by ID with optional preloading
func (r *GormOrderRepository) FindByID(id uint64, preload ...string) (*models.Order, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List retrieves orders most-recent-first with filtering and pagination
func (r *GormOrderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.ClientUsername != nil {
		query = query.Where("client_username = ?", *filter.ClientUsername)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("id DESC").Scopes(paginate(filter))

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// paginate windows a listing query. A zero page size disables the window
// and returns everything.
func paginate(filter OrderFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.PageSize <= 0 {
			return db
		}
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		return db.Offset(offset).Limit(filter.PageSize)
	}
}

// Recent returns the newest orders up to limit
func (r *GormOrderRepository) Recent(limit int, clientUsername *string) ([]models.Order, error) {
	query := r.db.Order("id DESC").Limit(limit)
	if clientUsername != nil {
		query = query.Where("client_username = ?", *clientUsername)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByClient counts all orders created by one client
func (r *GormOrderRepository) CountByClient(username string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("client_username = ?", username).
		Count(&count).Error
	return count, err
}

// Claim transitions pending -> claimed in one conditional UPDATE. When two
// operators race, only the first write matches status = pending; the loser
// sees zero rows affected and the claim is silently dropped.
func (r *GormOrderRepository) Claim(id uint64, assignee string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":      models.OrderStatusClaimed,
			"assigned_to": assignee,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FulfillWithPDF inserts the artifact and forces the order to fulfilled in
// one transaction. Forcing from pending is deliberate: it lets a superadmin
// close an order that was never claimed.
func (r *GormOrderRepository) FulfillWithPDF(pdf *models.OrderPDF) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pdf).Error; err != nil {
			return fmt.Errorf("failed to create order pdf: %w", err)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ?", pdf.OrderID).
			Update("status", models.OrderStatusFulfilled)
		if res.Error != nil {
			return fmt.Errorf("failed to update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// FindPDFByID finds an artifact by ID
func (r *GormOrderRepository) FindPDFByID(id uint64) (*models.OrderPDF, error) {
	var pdf models.OrderPDF
	if err := r.db.First(&pdf, id).Error; err != nil {
		return nil, err
	}
	return &pdf, nil
}

// ListPDFs returns an order's artifacts, most recent first
func (r *GormOrderRepository) ListPDFs(orderID uint64) ([]models.OrderPDF, error) {
	var pdfs []models.OrderPDF
	err := r.db.Where("order_id = ?", orderID).
		Order("id DESC").
		Find(&pdfs).Error
	if err != nil {
		return nil, err
	}
	return pdfs, nil
}
