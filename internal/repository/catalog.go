package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository/dao"
)

var (
	ErrDishNotFound    = dao.ErrDishNotFound
	ErrMenuDayNotFound = dao.ErrMenuDayNotFound
	ErrMenuDayExists   = dao.ErrMenuDayExists
)

type CatalogDAO interface {
	InsertDish(ctx context.Context, dish dao.Dish) (dao.Dish, error)
	FindDishByID(ctx context.Context, id uint) (dao.Dish, error)
	FindDishesByIDs(ctx context.Context, ids []uint) ([]dao.Dish, error)
	InsertMenuDay(ctx context.Context, menuDay dao.MenuDay) (dao.MenuDay, error)
	FindMenuDayByID(ctx context.Context, id uint) (dao.MenuDay, error)
	FindMenuDaysFrom(ctx context.Context, from time.Time) ([]dao.MenuDay, error)
	FindMenuDayDishes(ctx context.Context, menuDayID uint) ([]dao.DishWithStock, error)
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

func (r *CatalogRepository) CreateDish(ctx context.Context, dish domain.Dish) (domain.Dish, error) {
	created, err := r.dao.InsertDish(ctx, dao.Dish{
		Name:       dish.Name,
		PriceCents: dish.PriceCents,
		Category:   dish.Category,
	})
	if err != nil {
		return domain.Dish{}, fmt.Errorf("r.dao.InsertDish -> %w", err)
	}

	return r.dishDaoToDomain(created), nil
}

func (r *CatalogRepository) FindDishByID(ctx context.Context, id uint) (domain.Dish, error) {
	found, err := r.dao.FindDishByID(ctx, id)
	if err != nil {
		return domain.Dish{}, fmt.Errorf("r.dao.FindDishByID -> %w", err)
	}

	return r.dishDaoToDomain(found), nil
}

func (r *CatalogRepository) FindDishesByIDs(ctx context.Context, ids []uint) ([]domain.Dish, error) {
	found, err := r.dao.FindDishesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDishesByIDs -> %w", err)
	}

	dishes := make([]domain.Dish, len(found))
	for i, d := range found {
		dishes[i] = r.dishDaoToDomain(d)
	}

	return dishes, nil
}

func (r *CatalogRepository) CreateMenuDay(ctx context.Context, menuDay domain.MenuDay) (domain.MenuDay, error) {
	created, err := r.dao.InsertMenuDay(ctx, dao.MenuDay{
		Date:    menuDay.Date,
		Weekday: menuDay.Weekday,
	})
	if err != nil {
		return domain.MenuDay{}, fmt.Errorf("r.dao.InsertMenuDay -> %w", err)
	}

	return r.menuDayDaoToDomain(created), nil
}

func (r *CatalogRepository) FindMenuDayByID(ctx context.Context, id uint) (domain.MenuDay, error) {
	found, err := r.dao.FindMenuDayByID(ctx, id)
	if err != nil {
		return domain.MenuDay{}, fmt.Errorf("r.dao.FindMenuDayByID -> %w", err)
	}

	return r.menuDayDaoToDomain(found), nil
}

func (r *CatalogRepository) FindMenuDaysFrom(ctx context.Context, from time.Time) ([]domain.MenuDay, error) {
	found, err := r.dao.FindMenuDaysFrom(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMenuDaysFrom -> %w", err)
	}

	menuDays := make([]domain.MenuDay, len(found))
	for i, m := range found {
		menuDays[i] = r.menuDayDaoToDomain(m)
	}

	return menuDays, nil
}

func (r *CatalogRepository) FindMenuDayDishes(ctx context.Context, menuDayID uint) ([]domain.MenuDayDish, error) {
	rows, err := r.dao.FindMenuDayDishes(ctx, menuDayID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMenuDayDishes -> %w", err)
	}

	dishes := make([]domain.MenuDayDish, len(rows))
	for i, row := range rows {
		dishes[i] = domain.MenuDayDish{
			Dish:           r.dishDaoToDomain(row.Dish),
			RemainingUnits: row.RemainingUnits,
		}
	}

	return dishes, nil
}

func (r *CatalogRepository) dishDaoToDomain(d dao.Dish) domain.Dish {
	return domain.Dish{
		ID:         d.ID,
		Name:       d.Name,
		PriceCents: d.PriceCents,
		Category:   d.Category,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *CatalogRepository) menuDayDaoToDomain(m dao.MenuDay) domain.MenuDay {
	return domain.MenuDay{
		ID:        m.ID,
		Date:      m.Date,
		Weekday:   m.Weekday,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
