package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository"
)

var (
	ErrOrderNotFound    = repository.ErrOrderNotFound
	ErrNotOrderOwner    = errors.New("order belongs to another user")
	ErrWithdrawalFailed = repository.ErrWithdrawalConflict
)

type LifecycleOrderRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	FindVisibleByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	FindByMenuDay(ctx context.Context, menuDayID uint) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error
	Withdraw(ctx context.Context, orderID uint) error
}

// OrderService drives the order lifecycle: PENDING, FULFILLED and INACTIVE
// are mutually reachable, all transitions staff-triggered, no terminal
// state. Withdrawal restores stock only for PENDING orders.
type OrderService struct {
	repo LifecycleOrderRepository
}

func NewOrderService(repo LifecycleOrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
	}
}

// ListForUser returns the user's visible orders (withdrawn fulfilled or
// inactive orders stay persisted but hidden).
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	orders, err := s.repo.FindVisibleByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVisibleByUser -> %w", err)
	}

	return orders, nil
}

// ListForMenuDay returns every order for a menu day. Staff surface.
func (s *OrderService) ListForMenuDay(ctx context.Context, menuDayID uint) ([]domain.Order, error) {
	orders, err := s.repo.FindByMenuDay(ctx, menuDayID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByMenuDay -> %w", err)
	}

	return orders, nil
}

// GetForUser fetches an order, enforcing ownership for non-staff callers.
func (s *OrderService) GetForUser(ctx context.Context, orderID, userID uint, staff bool) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !staff && order.UserID != userID {
		return domain.Order{}, ErrNotOrderOwner
	}

	return order, nil
}

// SetStatus moves an order to the given status. Any of the three statuses
// may be set from any other; the enum is validated at the request boundary.
func (s *OrderService) SetStatus(ctx context.Context, orderID uint, status domain.OrderStatus) (domain.Order, error) {
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	zap.L().Info("order status changed",
		zap.Uint("order_id", orderID),
		zap.String("status", string(status)))

	return order, nil
}

// Withdraw removes an order on behalf of its owner or staff.
//
// A PENDING order is cancelled outright: its stock goes back to the ledger
// and the rows are deleted, atomically and fail-closed. A FULFILLED or
// INACTIVE order is only hidden from the user's list; its stock was already
// consumed and must not be restored twice.
func (s *OrderService) Withdraw(ctx context.Context, orderID, userID uint, staff bool) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !staff && order.UserID != userID {
		return ErrNotOrderOwner
	}

	if err := s.repo.Withdraw(ctx, orderID); err != nil {
		return fmt.Errorf("s.repo.Withdraw -> %w", err)
	}

	zap.L().Info("order withdrawn",
		zap.Uint("order_id", orderID),
		zap.String("prior_status", string(order.Status)))

	return nil
}
