package service

import (
	"context"
	"fmt"
	"time"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository"
)

var (
	ErrDishNotFound       = repository.ErrDishNotFound
	ErrMenuDayNotFound    = repository.ErrMenuDayNotFound
	ErrMenuDayExists      = repository.ErrMenuDayExists
	ErrStockEntryNotFound = repository.ErrStockEntryNotFound
	ErrStockEntryExists   = repository.ErrStockEntryExists
)

type CatalogRepository interface {
	CreateDish(ctx context.Context, dish domain.Dish) (domain.Dish, error)
	FindDishByID(ctx context.Context, id uint) (domain.Dish, error)
	FindDishesByIDs(ctx context.Context, ids []uint) ([]domain.Dish, error)
	CreateMenuDay(ctx context.Context, menuDay domain.MenuDay) (domain.MenuDay, error)
	FindMenuDayByID(ctx context.Context, id uint) (domain.MenuDay, error)
	FindMenuDaysFrom(ctx context.Context, from time.Time) ([]domain.MenuDay, error)
	FindMenuDayDishes(ctx context.Context, menuDayID uint) ([]domain.MenuDayDish, error)
}

type CatalogStockRepository interface {
	CreateEntry(ctx context.Context, entry domain.StockEntry) (domain.StockEntry, error)
	Read(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error)
	SetUnits(ctx context.Context, menuDayID, dishID uint, units int) error
}

// CatalogService manages the menu read models the cart and checkout
// reference, plus the staff surface for dishes, menu days and stock.
type CatalogService struct {
	repo      CatalogRepository
	stockRepo CatalogStockRepository
	now       func() time.Time
}

func NewCatalogService(repo CatalogRepository, stockRepo CatalogStockRepository) *CatalogService {
	return &CatalogService{
		repo:      repo,
		stockRepo: stockRepo,
		now:       time.Now,
	}
}

// CreateMenuDay opens a menu day for the given date. The weekday label is
// derived from the date.
func (s *CatalogService) CreateMenuDay(ctx context.Context, date time.Time) (domain.MenuDay, error) {
	menuDay := domain.MenuDay{
		Date:    date,
		Weekday: date.Weekday().String(),
	}

	created, err := s.repo.CreateMenuDay(ctx, menuDay)
	if err != nil {
		return domain.MenuDay{}, fmt.Errorf("s.repo.CreateMenuDay -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) GetMenuDay(ctx context.Context, id uint) (domain.MenuDay, []domain.MenuDayDish, error) {
	menuDay, err := s.repo.FindMenuDayByID(ctx, id)
	if err != nil {
		return domain.MenuDay{}, nil, fmt.Errorf("s.repo.FindMenuDayByID -> %w", err)
	}

	dishes, err := s.repo.FindMenuDayDishes(ctx, id)
	if err != nil {
		return domain.MenuDay{}, nil, fmt.Errorf("s.repo.FindMenuDayDishes -> %w", err)
	}

	return menuDay, dishes, nil
}

// ListUpcomingMenuDays returns today's and future menu days.
func (s *CatalogService) ListUpcomingMenuDays(ctx context.Context) ([]domain.MenuDay, error) {
	now := s.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	menuDays, err := s.repo.FindMenuDaysFrom(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindMenuDaysFrom -> %w", err)
	}

	return menuDays, nil
}

func (s *CatalogService) GetDish(ctx context.Context, id uint) (domain.Dish, error) {
	dish, err := s.repo.FindDishByID(ctx, id)
	if err != nil {
		return domain.Dish{}, fmt.Errorf("s.repo.FindDishByID -> %w", err)
	}

	return dish, nil
}

// AttachDish creates a dish and its ledger row for a menu day in one call.
// An existing dish may be reused by passing its id with a zero name.
func (s *CatalogService) AttachDish(ctx context.Context, menuDayID uint, dish domain.Dish, initialUnits int) (domain.Dish, domain.StockEntry, error) {
	if _, err := s.repo.FindMenuDayByID(ctx, menuDayID); err != nil {
		return domain.Dish{}, domain.StockEntry{}, fmt.Errorf("s.repo.FindMenuDayByID -> %w", err)
	}

	if dish.ID == 0 {
		created, err := s.repo.CreateDish(ctx, dish)
		if err != nil {
			return domain.Dish{}, domain.StockEntry{}, fmt.Errorf("s.repo.CreateDish -> %w", err)
		}
		dish = created
	} else {
		found, err := s.repo.FindDishByID(ctx, dish.ID)
		if err != nil {
			return domain.Dish{}, domain.StockEntry{}, fmt.Errorf("s.repo.FindDishByID -> %w", err)
		}
		dish = found
	}

	entry, err := s.stockRepo.CreateEntry(ctx, domain.StockEntry{
		MenuDayID:      menuDayID,
		DishID:         dish.ID,
		RemainingUnits: initialUnits,
	})
	if err != nil {
		return domain.Dish{}, domain.StockEntry{}, fmt.Errorf("s.stockRepo.CreateEntry -> %w", err)
	}

	return dish, entry, nil
}

// SetStock overwrites a ledger row's remaining units. Staff replenishment
// only; customer flows never set absolute quantities.
func (s *CatalogService) SetStock(ctx context.Context, menuDayID, dishID uint, units int) error {
	if err := s.stockRepo.SetUnits(ctx, menuDayID, dishID, units); err != nil {
		return fmt.Errorf("s.stockRepo.SetUnits -> %w", err)
	}

	return nil
}

// ReadStock returns the current remaining units for dishes on a menu day.
func (s *CatalogService) ReadStock(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error) {
	units, err := s.stockRepo.Read(ctx, menuDayID, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("s.stockRepo.Read -> %w", err)
	}

	return units, nil
}
