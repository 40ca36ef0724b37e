package repository

import (
	"context"
	"fmt"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository/dao"
)

var (
	ErrStockEntryNotFound = dao.ErrStockEntryNotFound
	ErrStockEntryExists   = dao.ErrStockEntryExists
	ErrInsufficientStock  = dao.ErrInsufficientStock
)

// InsufficientStockError carries the dish and available units of a failed
// decrement; matches ErrInsufficientStock under errors.Is.
type InsufficientStockError = dao.InsufficientStockError

func NewInsufficientStockError(dishID uint, available int) *InsufficientStockError {
	return &InsufficientStockError{DishID: dishID, Available: available}
}

type StockDAO interface {
	Insert(ctx context.Context, entry dao.StockEntry) (dao.StockEntry, error)
	Read(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error)
	Decrement(ctx context.Context, menuDayID, dishID uint, amount int) error
	Increment(ctx context.Context, menuDayID, dishID uint, amount int) error
	SetUnits(ctx context.Context, menuDayID, dishID uint, units int) error
}

// StockRepository fronts the stock ledger. Mutations go exclusively through
// the conditional Decrement and unconditional Increment primitives; there is
// no read-modify-write surface.
type StockRepository struct {
	dao StockDAO
}

func NewStockRepository(dao StockDAO) *StockRepository {
	return &StockRepository{
		dao: dao,
	}
}

func (r *StockRepository) CreateEntry(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error) {
	created, err := r.dao.Insert(ctx, dao.StockEntry{
		MenuDayID:      entry.MenuDayID,
		DishID:         entry.DishID,
		RemainingUnits: entry.RemainingUnits,
	})
	if err != nil {
		return domain.StockEntry{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.StockEntry{
		ID:             created.ID,
		MenuDayID:      created.MenuDayID,
		DishID:         created.DishID,
		RemainingUnits: created.RemainingUnits,
	}, nil
}

func (r *StockRepository) Read(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error) {
	units, err := r.dao.Read(ctx, menuDayID, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Read -> %w", err)
	}

	return units, nil
}

func (r *StockRepository) Decrement(ctx context.Context, menuDayID, dishID uint, amount int) error {
	if err := r.dao.Decrement(ctx, menuDayID, dishID, amount); err != nil {
		return fmt.Errorf("r.dao.Decrement -> %w", err)
	}

	return nil
}

func (r *StockRepository) Increment(ctx context.Context, menuDayID, dishID uint, amount int) error {
	if err := r.dao.Increment(ctx, menuDayID, dishID, amount); err != nil {
		return fmt.Errorf("r.dao.Increment -> %w", err)
	}

	return nil
}

func (r *StockRepository) SetUnits(ctx context.Context, menuDayID, dishID uint, units int) error {
	if err := r.dao.SetUnits(ctx, menuDayID, dishID, units); err != nil {
		return fmt.Errorf("r.dao.SetUnits -> %w", err)
	}

	return nil
}
