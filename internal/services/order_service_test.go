package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"github.com/Entelsac/ENTEL-SAC/internal/repository"
)

// fakeStore keeps uploaded bytes in memory.
type fakeStore struct {
	files    map[string][]byte
	failSave bool
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string][]byte{}}
}

func (s *fakeStore) SavePDF(orderID uint64, data []byte) (string, error) {
	if s.failSave {
		return "", fmt.Errorf("disk full")
	}
	s.nextID++
	path := fmt.Sprintf("mem://order_%d_%d.pdf", orderID, s.nextID)
	s.files[path] = data
	return path, nil
}

func (s *fakeStore) Exists(path string) bool {
	_, ok := s.files[path]
	return ok
}

func (s *fakeStore) Remove(path string) error {
	delete(s.files, path)
	return nil
}

// recorderNotifier records triggers so tests can assert commit-then-notify.
type recorderNotifier struct {
	createdOrders   []uint64
	fulfilledOrders []uint64
	createdUsers    []string
}

func (r *recorderNotifier) OrderCreated(order *models.Order, _ *models.User) {
	r.createdOrders = append(r.createdOrders, order.ID)
}

func (r *recorderNotifier) OrderFulfilled(order *models.Order, _ *models.User) {
	r.fulfilledOrders = append(r.fulfilledOrders, order.ID)
}

func (r *recorderNotifier) UserCreated(user *models.User, _ *models.User) {
	r.createdUsers = append(r.createdUsers, user.Username)
}

type orderTestEnv struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	store     *fakeStore
	recorder  *recorderNotifier
}

func setupOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderPDF{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &orderTestEnv{
		db:        db,
		orderRepo: repository.NewOrderRepository(db),
		userRepo:  repository.NewUserRepository(db),
		store:     newFakeStore(),
		recorder:  &recorderNotifier{},
	}
}

func (env *orderTestEnv) newService(creditCost int64) *OrderService {
	return NewOrderService(env.orderRepo, env.userRepo, env.store, env.recorder, creditCost)
}

func (env *orderTestEnv) createUser(t *testing.T, username string, role models.Role, credits int64) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		Credits:      credits,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *orderTestEnv) reloadOrder(t *testing.T, id uint64) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, env.db.First(&order, id).Error)
	return order
}

func (env *orderTestEnv) balance(t *testing.T, username string) int64 {
	t.Helper()
	var user models.User
	require.NoError(t, env.db.Where("username = ?", username).First(&user).Error)
	return user.Credits
}

// requireStatusInvariant checks that assignee is empty exactly when the
// order is pending.
func requireStatusInvariant(t *testing.T, order models.Order) {
	t.Helper()
	if order.Status == models.OrderStatusPending {
		require.Empty(t, order.AssignedTo)
	}
	if order.Status == models.OrderStatusClaimed {
		require.NotEmpty(t, order.AssignedTo)
	}
}

func TestOrderService_CreateDebitsExactlyOnce(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(20)
	client := env.createUser(t, "alice", models.RoleClient, 20)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0100", Message: "note"})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Empty(t, order.AssignedTo)
	require.Equal(t, int64(0), env.balance(t, "alice"))
	requireStatusInvariant(t, env.reloadOrder(t, order.ID))

	// The balance is exhausted: the very next creation must fail without
	// touching anything.
	_, err = svc.Create(client, CreateOrderInput{Phone: "555-0100", Message: "note"})
	require.ErrorIs(t, err, ErrInsufficientCredit)
	require.Equal(t, int64(0), env.balance(t, "alice"))

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	require.Equal(t, []uint64{order.ID}, env.recorder.createdOrders)
}

func TestOrderService_CreateFloorOfBalanceOverCost(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(3)
	client := env.createUser(t, "bob", models.RoleClient, 10)

	// floor(10/3) = 3 creations succeed, the fourth fails.
	for i := 0; i < 3; i++ {
		_, err := svc.Create(client, CreateOrderInput{Phone: "555-0200"})
		require.NoError(t, err)
	}

	_, err := svc.Create(client, CreateOrderInput{Phone: "555-0200"})
	require.ErrorIs(t, err, ErrInsufficientCredit)
	require.Equal(t, int64(1), env.balance(t, "bob"))

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	require.Equal(t, int64(3), count)
	require.Len(t, env.recorder.createdOrders, 3)
}

func TestOrderService_CreateSuperadminNeverDebited(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(50)
	root := env.createUser(t, "root", models.RoleSuperadmin, 10)

	order, err := svc.Create(root, CreateOrderInput{Phone: "555-0300"})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, int64(10), env.balance(t, "root"))
}

func TestOrderService_CreateDeniedForOperator(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	op := env.createUser(t, "op", models.RoleOperator, 100)

	_, err := svc.Create(op, CreateOrderInput{Phone: "555-0400"})
	require.ErrorIs(t, err, ErrPermissionDenied)

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, env.recorder.createdOrders)
}

func TestOrderService_CreateRequiresPhone(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "carol", models.RoleClient, 5)

	_, err := svc.Create(client, CreateOrderInput{Phone: "   "})
	require.ErrorIs(t, err, ErrPhoneRequired)
	require.Equal(t, int64(5), env.balance(t, "carol"))
}

func TestOrderService_ClaimIsIdempotentAgainstRaces(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)
	opA := env.createUser(t, "op-a", models.RoleOperator, 0)
	opB := env.createUser(t, "op-b", models.RoleOperator, 0)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0500"})
	require.NoError(t, err)

	require.NoError(t, svc.Claim(opA, order.ID))
	claimed := env.reloadOrder(t, order.ID)
	require.Equal(t, models.OrderStatusClaimed, claimed.Status)
	require.Equal(t, "op-a", claimed.AssignedTo)
	requireStatusInvariant(t, claimed)

	// The second operator loses the race: the call succeeds and the row is
	// untouched.
	require.NoError(t, svc.Claim(opB, order.ID))
	after := env.reloadOrder(t, order.ID)
	require.Equal(t, claimed, after)

	// Claiming a nonexistent order is also a silent no-op.
	require.NoError(t, svc.Claim(opA, 9999))
}

func TestOrderService_ClaimDeniedForClient(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0600"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Claim(client, order.ID), ErrPermissionDenied)
	require.Equal(t, models.OrderStatusPending, env.reloadOrder(t, order.ID).Status)
}

func TestOrderService_FulfillByAssignee(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)
	op := env.createUser(t, "op-a", models.RoleOperator, 0)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0700"})
	require.NoError(t, err)
	require.NoError(t, svc.Claim(op, order.ID))

	fulfilled, err := svc.Fulfill(op, order.ID, "report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusFulfilled, fulfilled.Status)

	stored := env.reloadOrder(t, order.ID)
	require.Equal(t, models.OrderStatusFulfilled, stored.Status)
	requireStatusInvariant(t, stored)

	var pdfs []models.OrderPDF
	require.NoError(t, env.db.Where("order_id = ?", order.ID).Find(&pdfs).Error)
	require.Len(t, pdfs, 1)
	require.True(t, env.store.Exists(pdfs[0].FilePath))

	require.Equal(t, []uint64{order.ID}, env.recorder.fulfilledOrders)
}

func TestOrderService_FulfillRejectsNonPDFName(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)
	op := env.createUser(t, "op-a", models.RoleOperator, 0)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0800"})
	require.NoError(t, err)
	require.NoError(t, svc.Claim(op, order.ID))

	_, err = svc.Fulfill(op, order.ID, "report.exe", []byte("bytes"))
	require.ErrorIs(t, err, ErrNotPDF)

	// Nothing was written anywhere.
	var count int64
	require.NoError(t, env.db.Model(&models.OrderPDF{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, env.store.files)
	require.Equal(t, models.OrderStatusClaimed, env.reloadOrder(t, order.ID).Status)
	require.Empty(t, env.recorder.fulfilledOrders)
}

func TestOrderService_FulfillAcceptsUppercaseExtension(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)
	op := env.createUser(t, "op-a", models.RoleOperator, 0)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0850"})
	require.NoError(t, err)
	require.NoError(t, svc.Claim(op, order.ID))

	_, err = svc.Fulfill(op, order.ID, "REPORT.PDF", []byte("%PDF-1.4"))
	require.NoError(t, err)
}

func TestOrderService_FulfillDeniedForNonAssignee(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)
	opA := env.createUser(t, "op-a", models.RoleOperator, 0)
	opB := env.createUser(t, "op-b", models.RoleOperator, 0)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-0900"})
	require.NoError(t, err)
	require.NoError(t, svc.Claim(opA, order.ID))

	_, err = svc.Fulfill(opB, order.ID, "report.pdf", []byte("%PDF-1.4"))
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.Equal(t, models.OrderStatusClaimed, env.reloadOrder(t, order.ID).Status)
}

func TestOrderService_SuperadminFulfillsUnclaimedOrder(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	client := env.createUser(t, "alice", models.RoleClient, 10)
	root := env.createUser(t, "root", models.RoleSuperadmin, 0)

	order, err := svc.Create(client, CreateOrderInput{Phone: "555-1000"})
	require.NoError(t, err)

	// Administrative override: fulfill straight from pending.
	fulfilled, err := svc.Fulfill(root, order.ID, "report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusFulfilled, fulfilled.Status)
}

func TestOrderService_FulfillCleansUpWhenTxFails(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	root := env.createUser(t, "root", models.RoleSuperadmin, 0)

	// Missing order: found check fails before any file write.
	_, err := svc.Fulfill(root, 424242, "report.pdf", []byte("%PDF-1.4"))
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.Empty(t, env.store.files)
}

func TestOrderService_GetHidesForeignOrdersFromClients(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	alice := env.createUser(t, "alice", models.RoleClient, 10)
	bob := env.createUser(t, "bob", models.RoleClient, 10)

	order, err := svc.Create(alice, CreateOrderInput{Phone: "555-1100"})
	require.NoError(t, err)

	// Owner sees it.
	got, _, err := svc.Get(alice, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	// A foreign order and a missing order are indistinguishable.
	_, _, errForeign := svc.Get(bob, order.ID)
	_, _, errMissing := svc.Get(bob, 9999)
	require.ErrorIs(t, errForeign, ErrOrderNotFound)
	require.ErrorIs(t, errMissing, ErrOrderNotFound)
	require.Equal(t, errForeign, errMissing)
}

func TestOrderService_ListScopesClientsToOwnOrders(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	alice := env.createUser(t, "alice", models.RoleClient, 10)
	bob := env.createUser(t, "bob", models.RoleClient, 10)
	op := env.createUser(t, "op", models.RoleOperator, 0)

	_, err := svc.Create(alice, CreateOrderInput{Phone: "555-1200"})
	require.NoError(t, err)
	second, err := svc.Create(bob, CreateOrderInput{Phone: "555-1300"})
	require.NoError(t, err)

	own, total, err := svc.List(alice, ListOrdersInput{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, own, 1)
	require.Equal(t, "alice", own[0].ClientUsername)

	// Operators see everything, newest first.
	all, total, err := svc.List(op, ListOrdersInput{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, second.ID, all[0].ID)
}

func TestOrderService_DownloadPDFChecksOwnershipAndDisk(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(1)
	alice := env.createUser(t, "alice", models.RoleClient, 10)
	bob := env.createUser(t, "bob", models.RoleClient, 10)
	op := env.createUser(t, "op", models.RoleOperator, 0)

	order, err := svc.Create(alice, CreateOrderInput{Phone: "555-1400"})
	require.NoError(t, err)
	require.NoError(t, svc.Claim(op, order.ID))
	_, err = svc.Fulfill(op, order.ID, "report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	var pdf models.OrderPDF
	require.NoError(t, env.db.Where("order_id = ?", order.ID).First(&pdf).Error)

	got, err := svc.DownloadPDF(alice, pdf.ID)
	require.NoError(t, err)
	require.Equal(t, pdf.ID, got.ID)

	// Foreign client gets the same not-found as a missing id.
	_, errForeign := svc.DownloadPDF(bob, pdf.ID)
	_, errMissing := svc.DownloadPDF(bob, 9999)
	require.ErrorIs(t, errForeign, ErrPDFNotFound)
	require.Equal(t, errForeign, errMissing)

	// A vanished file reports not found too.
	require.NoError(t, env.store.Remove(pdf.FilePath))
	_, err = svc.DownloadPDF(alice, pdf.ID)
	require.ErrorIs(t, err, ErrPDFNotFound)
}

func TestOrderService_Dashboard(t *testing.T) {
	env := setupOrderTestEnv(t)
	svc := env.newService(2)
	alice := env.createUser(t, "alice", models.RoleClient, 10)
	bob := env.createUser(t, "bob", models.RoleClient, 10)

	_, err := svc.Create(alice, CreateOrderInput{Phone: "555-1500"})
	require.NoError(t, err)
	_, err = svc.Create(alice, CreateOrderInput{Phone: "555-1600"})
	require.NoError(t, err)
	_, err = svc.Create(bob, CreateOrderInput{Phone: "555-1700"})
	require.NoError(t, err)

	// Reload so the summary reflects the debited balance.
	refreshed, err := env.userRepo.FindByUsername("alice")
	require.NoError(t, err)

	summary, err := svc.GetDashboard(refreshed)
	require.NoError(t, err)
	require.Equal(t, int64(6), summary.Credits)
	require.Equal(t, int64(2), summary.OrdersUsed)
	require.Len(t, summary.RecentOrders, 2)
	for _, order := range summary.RecentOrders {
		require.Equal(t, "alice", order.ClientUsername)
	}
}
