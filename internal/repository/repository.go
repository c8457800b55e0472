package repository

import "github.com/Entelsac/ENTEL-SAC/internal/models"

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List returns all users, most recent first
	List() ([]models.User, error)

	// Delete removes a user
	Delete(id uint64) error

	// AddCredits atomically increments a user's balance
	AddCredits(id uint64, amount int64) error
}

// OrderFilter holds filtering options for listing orders
type OrderFilter struct {
	// ClientUsername restricts the listing to one client's orders.
	ClientUsername *string
	Page           int
	PageSize       int
}

// OrderRepository defines the interface for order and artifact data access
type OrderRepository interface {
	// CreateWithDebit inserts the order and debits cost credits from the
	// client in one transaction. A cost of zero skips the debit entirely.
	// Returns ErrInsufficientCredit without writing anything when the
	// balance cannot cover the cost.
	CreateWithDebit(order *models.Order, clientUsername string, cost int64) error

	// FindByID finds an order by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Order, error)

	// List retrieves orders most-recent-first with filtering and pagination
	List(filter OrderFilter) ([]models.Order, int64, error)

	// Recent returns the newest orders up to limit, optionally restricted
	// to one client
	Recent(limit int, clientUsername *string) ([]models.Order, error)

	// CountByClient counts all orders created by one client
	CountByClient(username string) (int64, error)

	// Claim atomically transitions a pending order to claimed and records
	// the assignee. Returns false when the order is missing or no longer
	// pending; that outcome is not an error.
	Claim(id uint64, assignee string) (bool, error)

	// FulfillWithPDF inserts the artifact row and forces the order to
	// fulfilled in one transaction.
	FulfillWithPDF(pdf *models.OrderPDF) error

	// FindPDFByID finds an artifact by ID
	FindPDFByID(id uint64) (*models.OrderPDF, error)

	// ListPDFs returns an order's artifacts, most recent first
	ListPDFs(orderID uint64) ([]models.OrderPDF, error)
}
