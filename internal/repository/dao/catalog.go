package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDishNotFound    = errors.New("dish not found")
	ErrMenuDayNotFound = errors.New("menu day not found")
	ErrMenuDayExists   = errors.New("menu day already exists for this date")
)

type Dish struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	PriceCents int64  `gorm:"not null"`
	Category   string `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type MenuDay struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"not null;unique"`
	Weekday   string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DishWithStock joins a dish offered on a menu day with its ledger row.
type DishWithStock struct {
	Dish
	RemainingUnits int
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

func (d *CatalogDAO) InsertDish(ctx context.Context, dish Dish) (Dish, error) {
	result := d.db.WithContext(ctx).Create(&dish)
	if result.Error != nil {
		return Dish{}, result.Error
	}

	return dish, nil
}

func (d *CatalogDAO) FindDishByID(ctx context.Context, id uint) (Dish, error) {
	var dish Dish

	result := d.db.WithContext(ctx).First(&dish, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Dish{}, ErrDishNotFound
		}

		return Dish{}, result.Error
	}

	return dish, nil
}

func (d *CatalogDAO) FindDishesByIDs(ctx context.Context, ids []uint) ([]Dish, error) {
	var dishes []Dish

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&dishes)
	if result.Error != nil {
		return nil, result.Error
	}

	return dishes, nil
}

func (d *CatalogDAO) InsertMenuDay(ctx context.Context, menuDay MenuDay) (MenuDay, error) {
	result := d.db.WithContext(ctx).Create(&menuDay)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_menu_days_date"`) {
			return MenuDay{}, ErrMenuDayExists
		}

		return MenuDay{}, result.Error
	}

	return menuDay, nil
}

func (d *CatalogDAO) FindMenuDayByID(ctx context.Context, id uint) (MenuDay, error) {
	var menuDay MenuDay

	result := d.db.WithContext(ctx).First(&menuDay, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MenuDay{}, ErrMenuDayNotFound
		}

		return MenuDay{}, result.Error
	}

	return menuDay, nil
}

func (d *CatalogDAO) FindMenuDaysFrom(ctx context.Context, from time.Time) ([]MenuDay, error) {
	var menuDays []MenuDay

	result := d.db.WithContext(ctx).
		Where("date >= ?", from).
		Order("date ASC").
		Find(&menuDays)
	if result.Error != nil {
		return nil, result.Error
	}

	return menuDays, nil
}

// FindMenuDayDishes returns the dishes offered on a menu day, joined with
// their remaining stock.
func (d *CatalogDAO) FindMenuDayDishes(ctx context.Context, menuDayID uint) ([]DishWithStock, error) {
	var rows []DishWithStock

	result := d.db.WithContext(ctx).
		Model(&Dish{}).
		Select("dishes.*, stock_entries.remaining_units").
		Joins("JOIN stock_entries ON stock_entries.dish_id = dishes.id").
		Where("stock_entries.menu_day_id = ?", menuDayID).
		Order("dishes.name ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
