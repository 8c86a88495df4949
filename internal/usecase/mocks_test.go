package usecase

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// 共通ヘルパー
// =====================

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()

	he, ok := AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, message, he.Message)
	}
}

// =====================
// repository mock
// =====================

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	if ps, ok := args.Get(0).([]model.Product); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	if items, ok := args.Get(0).([]model.CartItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCartRepo) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *mockCartRepo) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, userID, productID, addQty)
	return args.Error(0)
}

func (m *mockCartRepo) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *mockCartRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *mockCartRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if os, ok := args.Get(0).([]model.Order); ok {
		return os, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type mockOrderItemRepo struct{ mock.Mock }

func (m *mockOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if items, ok := args.Get(0).([]model.OrderItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type mockInventoryRepo struct{ mock.Mock }

func (m *mockInventoryRepo) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

// =====================
// transaction fake
// =====================

type fakeTxRepos struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
}

func (f *fakeTxRepos) Orders() repo.OrderRepository         { return f.orders }
func (f *fakeTxRepos) OrderItems() repo.OrderItemRepository { return f.orderItems }
func (f *fakeTxRepos) CartItems() repo.CartRepository       { return f.cartItems }
func (f *fakeTxRepos) Products() repo.ProductRepository     { return f.products }
func (f *fakeTxRepos) Inventory() repo.InventoryRepository  { return f.inventory }

// fnのerrorをそのまま返すだけのTransactionManager。
// rollback自体は検証しない（errorが返ればrollbackされる設計）。
type fakeTxManager struct {
	repos  repo.TxRepos
	called bool
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	f.called = true
	return fn(f.repos)
}

// =====================
// in-memory cart repository
//（加算upsertの性質はmockより実体で確かめたい）
// =====================

type memCartRepo struct {
	nextID int64
	items  []model.CartItem
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{}
}

func (m *memCartRepo) ListByUserID(_ context.Context, userID int64) ([]model.CartItem, error) {
	out := make([]model.CartItem, 0)
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memCartRepo) FindByID(_ context.Context, cartItemID int64) (model.CartItem, error) {
	for _, it := range m.items {
		if it.ID == cartItemID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (m *memCartRepo) UpsertByUserAndProduct(_ context.Context, userID int64, productID int64, addQty int64) error {
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].ProductID == productID {
			m.items[i].Quantity += addQty
			return nil
		}
	}
	m.nextID++
	m.items = append(m.items, model.CartItem{
		ID:        m.nextID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
	})
	return nil
}

func (m *memCartRepo) UpdateQuantity(_ context.Context, cartItemID int64, qty int64) error {
	for i := range m.items {
		if m.items[i].ID == cartItemID {
			m.items[i].Quantity = qty
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memCartRepo) DeleteByID(_ context.Context, cartItemID int64) error {
	kept := m.items[:0]
	for _, it := range m.items {
		if it.ID != cartItemID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return nil
}

func (m *memCartRepo) DeleteByUserID(_ context.Context, userID int64) error {
	kept := m.items[:0]
	for _, it := range m.items {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return nil
}
