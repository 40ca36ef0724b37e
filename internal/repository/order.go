package repository

import (
	"context"
	"fmt"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository/dao"
)

var (
	ErrOrderNotFound      = dao.ErrOrderNotFound
	ErrDuplicateOrder     = dao.ErrDuplicateOrder
	ErrWithdrawalConflict = dao.ErrWithdrawalConflict
)

type OrderDAO interface {
	InsertWithItems(ctx context.Context, order dao.Order, items []dao.OrderItem) (dao.Order, error)
	FindByID(ctx context.Context, id uint) (dao.Order, error)
	FindVisibleByUser(ctx context.Context, userID uint) ([]dao.Order, error)
	FindByMenuDay(ctx context.Context, menuDayID uint) ([]dao.Order, error)
	HasOpenOrder(ctx context.Context, userID, menuDayID uint) (bool, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
	Withdraw(ctx context.Context, orderID uint) error
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

// CreateWithItems persists the order, its items and the matching stock
// decrements as one atomic unit. Returns ErrDuplicateOrder or an
// InsufficientStock error (errors.Is-able via ErrInsufficientStock) without
// leaving partial state behind.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order domain.Order) (domain.Order, error) {
	daoItems := make([]dao.OrderItem, len(order.Items))
	for i, item := range order.Items {
		daoItems[i] = dao.OrderItem{
			DishID:         item.DishID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		}
	}

	created, err := r.dao.InsertWithItems(ctx, dao.Order{
		UserID:      order.UserID,
		MenuDayID:   order.MenuDayID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		Notes:       order.Notes,
		TotalCents:  order.TotalCents,
		Visible:     order.Visible,
	}, daoItems)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.InsertWithItems -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) FindVisibleByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	found, err := r.dao.FindVisibleByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVisibleByUser -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OrderRepository) FindByMenuDay(ctx context.Context, menuDayID uint) ([]domain.Order, error) {
	found, err := r.dao.FindByMenuDay(ctx, menuDayID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByMenuDay -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *OrderRepository) HasOpenOrder(ctx context.Context, userID, menuDayID uint) (bool, error) {
	exists, err := r.dao.HasOpenOrder(ctx, userID, menuDayID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasOpenOrder -> %w", err)
	}

	return exists, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	if err := r.dao.UpdateStatus(ctx, orderID, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *OrderRepository) Withdraw(ctx context.Context, orderID uint) error {
	if err := r.dao.Withdraw(ctx, orderID); err != nil {
		return fmt.Errorf("r.dao.Withdraw -> %w", err)
	}

	return nil
}

func (r *OrderRepository) daoToDomain(o dao.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = domain.OrderItem{
			ID:             item.ID,
			OrderID:        item.OrderID,
			DishID:         item.DishID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		}
	}

	return domain.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		MenuDayID:   o.MenuDayID,
		OrderNumber: o.OrderNumber,
		Status:      domain.OrderStatus(o.Status),
		Notes:       o.Notes,
		TotalCents:  o.TotalCents,
		Visible:     o.Visible,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (r *OrderRepository) daosToDomain(orders []dao.Order) []domain.Order {
	result := make([]domain.Order, len(orders))
	for i, o := range orders {
		result[i] = r.daoToDomain(o)
	}

	return result
}
