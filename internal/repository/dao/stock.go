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
	ErrStockEntryNotFound = errors.New("stock entry not found")
	ErrStockEntryExists   = errors.New("stock entry already exists for this dish and menu day")

	// ErrInsufficientStock signals that a conditional decrement found fewer
	// remaining units than requested. Callers needing the dish and available
	// count should errors.As into *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries which dish ran short and how many units
// were still available at the moment the decrement failed.
type InsufficientStockError struct {
	DishID    uint
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for dish %d: %d available", e.DishID, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type StockEntry struct {
	ID             uint `gorm:"primaryKey"`
	MenuDayID      uint `gorm:"not null;uniqueIndex:uniq_stock_entries_menu_day_dish"`
	DishID         uint `gorm:"not null;uniqueIndex:uniq_stock_entries_menu_day_dish"`
	RemainingUnits int  `gorm:"not null;check:remaining_units >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type StockDAO struct {
	db *gorm.DB
}

func NewStockDAO(db *gorm.DB) *StockDAO {
	return &StockDAO{
		db: db,
	}
}

func (d *StockDAO) Insert(ctx context.Context, entry StockEntry) (StockEntry, error) {
	result := d.db.WithContext(ctx).Create(&entry)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "uniq_stock_entries_menu_day_dish") {
			return StockEntry{}, ErrStockEntryExists
		}

		return StockEntry{}, result.Error
	}

	return entry, nil
}

// Read returns the remaining units for the given dishes on a menu day.
// Dishes with no ledger row are absent from the result.
func (d *StockDAO) Read(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error) {
	var entries []StockEntry

	result := d.db.WithContext(ctx).
		Where("menu_day_id = ? AND dish_id IN ?", menuDayID, dishIDs).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	units := make(map[uint]int, len(entries))
	for _, e := range entries {
		units[e.DishID] = e.RemainingUnits
	}

	return units, nil
}

// Decrement atomically takes amount units off the ledger row, but only if
// enough units remain. The guard lives in the UPDATE itself so that two
// concurrent checkouts serialize on the row and can never oversell.
func (d *StockDAO) Decrement(ctx context.Context, menuDayID, dishID uint, amount int) error {
	return decrementStock(d.db.WithContext(ctx), menuDayID, dishID, amount)
}

// Increment unconditionally restores units. Used by order withdrawal; the
// ledger tracks no ceiling, so no upper bound applies.
func (d *StockDAO) Increment(ctx context.Context, menuDayID, dishID uint, amount int) error {
	return incrementStock(d.db.WithContext(ctx), menuDayID, dishID, amount)
}

// SetUnits overwrites the remaining units of a ledger row. Staff-only
// replenishment; never used by the checkout path.
func (d *StockDAO) SetUnits(ctx context.Context, menuDayID, dishID uint, units int) error {
	result := d.db.WithContext(ctx).
		Model(&StockEntry{}).
		Where("menu_day_id = ? AND dish_id = ?", menuDayID, dishID).
		Update("remaining_units", units)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockEntryNotFound
	}

	return nil
}

// decrementStock issues the single conditional write both the stock DAO and
// the checkout transaction rely on. A zero rows-affected outcome means the
// guard failed: either the row is missing or fewer units remain than asked.
func decrementStock(tx *gorm.DB, menuDayID, dishID uint, amount int) error {
	result := tx.
		Model(&StockEntry{}).
		Where("menu_day_id = ? AND dish_id = ? AND remaining_units >= ?", menuDayID, dishID, amount).
		Update("remaining_units", gorm.Expr("remaining_units - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var entry StockEntry
		if err := tx.Where("menu_day_id = ? AND dish_id = ?", menuDayID, dishID).
			First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockEntryNotFound
			}

			return err
		}

		return &InsufficientStockError{DishID: dishID, Available: entry.RemainingUnits}
	}

	return nil
}

func incrementStock(tx *gorm.DB, menuDayID, dishID uint, amount int) error {
	result := tx.
		Model(&StockEntry{}).
		Where("menu_day_id = ? AND dish_id = ?", menuDayID, dishID).
		Update("remaining_units", gorm.Expr("remaining_units + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockEntryNotFound
	}

	return nil
}
