package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository"
)

type fakeLifecycleRepo struct {
	orders    map[uint]domain.Order
	withdrawn []uint
}

func newFakeLifecycleRepo(orders ...domain.Order) *fakeLifecycleRepo {
	repo := &fakeLifecycleRepo{orders: make(map[uint]domain.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}

	return repo
}

func (f *fakeLifecycleRepo) FindByID(_ context.Context, id uint) (domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}

	return order, nil
}

func (f *fakeLifecycleRepo) FindVisibleByUser(_ context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	for _, order := range f.orders {
		if order.Visible && order.UserID == userID {
			orders = append(orders, order)
		}
	}

	return orders, nil
}

func (f *fakeLifecycleRepo) FindByMenuDay(_ context.Context, menuDayID uint) ([]domain.Order, error) {
	var orders []domain.Order
	for _, order := range f.orders {
		if order.MenuDayID == menuDayID {
			orders = append(orders, order)
		}
	}

	return orders, nil
}

func (f *fakeLifecycleRepo) UpdateStatus(_ context.Context, orderID uint, status domain.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}

	order.Status = status
	f.orders[orderID] = order

	return nil
}

func (f *fakeLifecycleRepo) Withdraw(_ context.Context, orderID uint) error {
	if _, ok := f.orders[orderID]; !ok {
		return repository.ErrOrderNotFound
	}

	f.withdrawn = append(f.withdrawn, orderID)

	return nil
}

func TestOrderService_GetForUser(t *testing.T) {
	order := domain.Order{ID: 1, UserID: 7, Visible: true, Status: domain.OrderStatusPending}
	svc := NewOrderService(newFakeLifecycleRepo(order))

	t.Run("owner reads their order", func(t *testing.T) {
		got, err := svc.GetForUser(context.Background(), 1, 7, false)

		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("other customers are locked out", func(t *testing.T) {
		_, err := svc.GetForUser(context.Background(), 1, 8, false)

		assert.ErrorIs(t, err, ErrNotOrderOwner)
	})

	t.Run("staff bypass ownership", func(t *testing.T) {
		_, err := svc.GetForUser(context.Background(), 1, 8, true)

		assert.NoError(t, err)
	})

	t.Run("missing order surfaces not found", func(t *testing.T) {
		_, err := svc.GetForUser(context.Background(), 99, 7, false)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_ListForUser(t *testing.T) {
	svc := NewOrderService(newFakeLifecycleRepo(
		domain.Order{ID: 1, UserID: 7, MenuDayID: 10, Visible: true},
		domain.Order{ID: 2, UserID: 7, MenuDayID: 11, Visible: false},
		domain.Order{ID: 3, UserID: 8, MenuDayID: 10, Visible: true},
	))

	orders, err := svc.ListForUser(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, uint(1), orders[0].ID)
}

func TestOrderService_SetStatus(t *testing.T) {
	repo := newFakeLifecycleRepo(domain.Order{ID: 1, UserID: 7, Visible: true, Status: domain.OrderStatusPending})
	svc := NewOrderService(repo)

	// Statuses are mutually reachable; walk a full cycle.
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusFulfilled,
		domain.OrderStatusInactive,
		domain.OrderStatusPending,
	} {
		order, err := svc.SetStatus(context.Background(), 1, status)

		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}

	_, err := svc.SetStatus(context.Background(), 99, domain.OrderStatusFulfilled)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Withdraw(t *testing.T) {
	t.Run("owner withdraws their order", func(t *testing.T) {
		repo := newFakeLifecycleRepo(domain.Order{ID: 1, UserID: 7, Visible: true, Status: domain.OrderStatusPending})
		svc := NewOrderService(repo)

		err := svc.Withdraw(context.Background(), 1, 7, false)

		require.NoError(t, err)
		assert.Equal(t, []uint{1}, repo.withdrawn)
	})

	t.Run("other customers cannot withdraw", func(t *testing.T) {
		repo := newFakeLifecycleRepo(domain.Order{ID: 1, UserID: 7, Visible: true, Status: domain.OrderStatusPending})
		svc := NewOrderService(repo)

		err := svc.Withdraw(context.Background(), 1, 8, false)

		assert.ErrorIs(t, err, ErrNotOrderOwner)
		assert.Empty(t, repo.withdrawn)
	})

	t.Run("staff withdraw on behalf of anyone", func(t *testing.T) {
		repo := newFakeLifecycleRepo(domain.Order{ID: 1, UserID: 7, Visible: true, Status: domain.OrderStatusFulfilled})
		svc := NewOrderService(repo)

		err := svc.Withdraw(context.Background(), 1, 99, true)

		require.NoError(t, err)
		assert.Equal(t, []uint{1}, repo.withdrawn)
	})
}
