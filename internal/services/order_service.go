package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Entelsac/ENTEL-SAC/internal/constants"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"github.com/Entelsac/ENTEL-SAC/internal/notifier"
	"github.com/Entelsac/ENTEL-SAC/internal/policy"
	"github.com/Entelsac/ENTEL-SAC/internal/repository"
	"github.com/Entelsac/ENTEL-SAC/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrOrderNotFound      = errors.New("order not found")
	ErrPDFNotFound        = errors.New("pdf not found")
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrNotPDF             = errors.New("file must be a pdf")
	ErrPhoneRequired      = errors.New("phone is required")
)

// OrderService handles the order lifecycle: creation with credit debit,
// claiming, fulfillment via PDF upload, and role-scoped reads.
type OrderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	store     storage.BlobStore
	notify    notifier.Notifier

	// creditCost is debited per created order for non-superadmin actors.
	creditCost int64
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, store storage.BlobStore, notify notifier.Notifier, creditCost int64) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		store:      store,
		notify:     notify,
		creditCost: creditCost,
	}
}

// CreateOrderInput represents input for creating an order
type CreateOrderInput struct {
	Phone   string
	Message string
}

// Create creates a pending order owned by the actor, debiting the credit
// cost in the same transaction. Superadmins are never debited. The
// notification fires only after the transaction has committed.
func (s *OrderService) Create(actor *models.User, input CreateOrderInput) (*models.Order, error) {
	if !policy.Allowed(actor.Role, policy.ActionCreateOrder) {
		return nil, ErrPermissionDenied
	}

	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	cost := s.creditCost
	if actor.Role == models.RoleSuperadmin {
		cost = 0
	}

	order := &models.Order{
		ClientUsername: actor.Username,
		Phone:          phone,
		Message:        input.Message,
		Status:         models.OrderStatusPending,
		AssignedTo:     "",
	}

	if err := s.orderRepo.CreateWithDebit(order, actor.Username, cost); err != nil {
		if errors.Is(err, repository.ErrInsufficientCredit) {
			return nil, ErrInsufficientCredit
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.notify.OrderCreated(order, actor)

	return order, nil
}

// Claim assigns a pending order to the actor. A claim against a missing,
// already-claimed or fulfilled order is a silent no-op: in a race between
// two operators only the first committed write wins and the loser's call
// still succeeds without changing anything.
func (s *OrderService) Claim(actor *models.User, orderID uint64) error {
	if !policy.Allowed(actor.Role, policy.ActionClaimOrder) {
		return ErrPermissionDenied
	}

	if _, err := s.orderRepo.Claim(orderID, actor.Username); err != nil {
		return fmt.Errorf("failed to claim order: %w", err)
	}

	return nil
}

// Fulfill stores the uploaded report and forces the order to fulfilled.
// The declared filename must end in .pdf; content is not inspected. An
// operator may only fulfill orders assigned to them, a superadmin any
// order, including one still pending.
func (s *OrderService) Fulfill(actor *models.User, orderID uint64, filename string, data []byte) (*models.Order, error) {
	if !policy.Allowed(actor.Role, policy.ActionUploadArtifact) {
		return nil, ErrPermissionDenied
	}

	if !strings.HasSuffix(strings.ToLower(filename), constants.PDFFileExtension) {
		return nil, ErrNotPDF
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if !policy.CanUploadArtifact(actor, order) {
		return nil, ErrPermissionDenied
	}

	path, err := s.store.SavePDF(order.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store pdf: %w", err)
	}

	pdf := &models.OrderPDF{
		OrderID:  order.ID,
		FilePath: path,
	}
	if err := s.orderRepo.FulfillWithPDF(pdf); err != nil {
		// The file must not outlive its failed artifact row.
		_ = s.store.Remove(path)
		return nil, fmt.Errorf("failed to record pdf: %w", err)
	}

	order.Status = models.OrderStatusFulfilled

	s.notify.OrderFulfilled(order, actor)

	return order, nil
}

// Get returns one order with its artifacts, most recent first. A client
// asking for another client's order gets the same ErrOrderNotFound as for
// an id that does not exist.
func (s *OrderService) Get(actor *models.User, orderID uint64) (*models.Order, []models.OrderPDF, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to find order: %w", err)
	}

	if !policy.CanViewOrder(actor, order) {
		return nil, nil, ErrOrderNotFound
	}

	pdfs, err := s.orderRepo.ListPDFs(order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pdfs: %w", err)
	}

	return order, pdfs, nil
}

// ListOrdersInput represents filters for listing orders
type ListOrdersInput struct {
	Page     int
	PageSize int
}

// List returns orders visible to the actor, most recent first. Clients see
// only their own; every other role sees all orders.
func (s *OrderService) List(actor *models.User, input ListOrdersInput) ([]models.Order, int64, error) {
	filter := repository.OrderFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if actor.Role == models.RoleClient {
		filter.ClientUsername = &actor.Username
	}

	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

// DownloadPDF resolves an artifact for serving. The same ownership rule as
// Get applies, and a row whose file vanished from disk reports not found.
func (s *OrderService) DownloadPDF(actor *models.User, pdfID uint64) (*models.OrderPDF, error) {
	pdf, err := s.orderRepo.FindPDFByID(pdfID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPDFNotFound
		}
		return nil, fmt.Errorf("failed to find pdf: %w", err)
	}

	order, err := s.orderRepo.FindByID(pdf.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPDFNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if !policy.CanViewOrder(actor, order) {
		return nil, ErrPDFNotFound
	}

	if !s.store.Exists(pdf.FilePath) {
		return nil, ErrPDFNotFound
	}

	return pdf, nil
}

// Dashboard summarizes the actor's view: credit balance, how many orders
// they have created, and the newest orders they may see.
type Dashboard struct {
	Credits      int64
	OrdersUsed   int64
	RecentOrders []models.Order
}

// GetDashboard builds the landing summary for the actor.
func (s *OrderService) GetDashboard(actor *models.User) (*Dashboard, error) {
	used, err := s.orderRepo.CountByClient(actor.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var clientFilter *string
	if actor.Role == models.RoleClient {
		clientFilter = &actor.Username
	}
	recent, err := s.orderRepo.Recent(constants.RecentOrderLimit, clientFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent orders: %w", err)
	}

	return &Dashboard{
		Credits:      actor.Credits,
		OrdersUsed:   used,
		RecentOrders: recent,
	}, nil
}
