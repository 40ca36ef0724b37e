package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrder is raised by the partial unique index on
	// (user_id, menu_day_id) WHERE visible: a user may hold at most one
	// non-withdrawn order per menu day.
	ErrDuplicateOrder = errors.New("an order already exists for this menu day")

	// ErrWithdrawalConflict means a withdrawal could not restore stock or
	// lost a race with a concurrent status change; nothing was modified.
	ErrWithdrawalConflict = errors.New("order withdrawal failed")
)

type Order struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;uniqueIndex:uniq_orders_open_per_menu_day,where:visible"`
	MenuDayID   uint   `gorm:"not null;uniqueIndex:uniq_orders_open_per_menu_day,where:visible"`
	OrderNumber string `gorm:"not null;unique"`
	Status      string `gorm:"not null;index"`
	Notes       string
	TotalCents  int64       `gorm:"not null"`
	Visible     bool        `gorm:"not null;default:true"`
	Items       []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID             uint  `gorm:"primaryKey"`
	OrderID        uint  `gorm:"not null;index"`
	DishID         uint  `gorm:"not null"`
	Quantity       int   `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"`
	SubtotalCents  int64 `gorm:"not null"`
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

// InsertWithItems creates the order and its items and applies the matching
// stock decrements as one transaction. Any failed decrement rolls the whole
// unit back: no partial orders, no lost stock.
//
// The conditional decrement is the serialization point between concurrent
// checkouts for the same dish, and the partial unique index on
// (user_id, menu_day_id) WHERE visible closes the duplicate-order race that
// the service-level pre-check cannot.
func (d *OrderDAO) InsertWithItems(ctx context.Context, order Order, items []OrderItem) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := decrementStock(tx, order.MenuDayID, item.DishID, item.Quantity); err != nil {
				return err
			}
		}

		order.Items = items
		if err := tx.Create(&order).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "uniq_orders_open_per_menu_day") {
				return ErrDuplicateOrder
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) FindByID(ctx context.Context, id uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).Preload("Items").First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

// FindVisibleByUser lists the orders a user can see, newest first.
func (d *OrderDAO) FindVisibleByUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND visible", userID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// FindByMenuDay lists every order for a menu day, hidden ones included.
// Staff surface only.
func (d *OrderDAO) FindByMenuDay(ctx context.Context, menuDayID uint) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Preload("Items").
		Where("menu_day_id = ?", menuDayID).
		Order("created_at ASC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// HasOpenOrder reports whether a non-withdrawn order exists for the pair.
// Best-effort pre-check; the unique index is the real guarantee.
func (d *OrderDAO) HasOpenOrder(ctx context.Context, userID, menuDayID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("user_id = ? AND menu_day_id = ? AND visible", userID, menuDayID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *OrderDAO) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Withdraw removes an order with lifecycle-dependent stock restitution.
//
// A PENDING order is truly cancelled: every item's units go back to the
// ledger and the order plus its items are hard-deleted, all inside one
// transaction. If any restore fails, or the order's status changed
// concurrently, the transaction rolls back and nothing is touched.
//
// A FULFILLED or INACTIVE order already consumed its units; it is only
// hidden from the user's list (visible = false), the row kept for audit.
func (d *OrderDAO) Withdraw(ctx context.Context, orderID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return err
		}

		if order.Status != "PENDING" {
			// Guard on the status just read so a concurrent transition back
			// to PENDING cannot hide an order that still owes restitution.
			result := tx.Model(&Order{}).
				Where("id = ? AND status = ?", orderID, order.Status).
				Update("visible", false)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrWithdrawalConflict
			}

			return nil
		}

		// Items go first: the order row carries the foreign key their rows
		// reference. A status conflict below still rolls this delete back.
		if err := tx.Where("order_id = ?", orderID).Delete(&OrderItem{}).Error; err != nil {
			return err
		}

		// Guard on status so a concurrent transition to FULFILLED cannot
		// slip between the read above and the delete below.
		result := tx.Where("id = ? AND status = ?", orderID, "PENDING").Delete(&Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWithdrawalConflict
		}

		for _, item := range order.Items {
			if err := incrementStock(tx, order.MenuDayID, item.DishID, item.Quantity); err != nil {
				return fmt.Errorf("%w: restore dish %d -> %v", ErrWithdrawalConflict, item.DishID, err)
			}
		}

		return nil
	})
}
