package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/minhvt2810/canteen-api/internal/domain"
)

var ErrCrossMenuConflict = domain.ErrCrossMenuConflict

type CartCatalog interface {
	FindDishByID(ctx context.Context, id uint) (domain.Dish, error)
	FindMenuDayByID(ctx context.Context, id uint) (domain.MenuDay, error)
}

type CartStockReader interface {
	Read(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error)
}

// CartService keeps one cart per authenticated user for the lifetime of the
// process. Each cart itself is single-threaded per session; the map is
// guarded only because different users share it.
//
// Carts never reserve stock. The ledger is read at add time purely to
// compute the quantity clamp, so abandoned carts expire without cleanup.
type CartService struct {
	catalog CartCatalog
	stock   CartStockReader

	mu    sync.Mutex
	carts map[uint]*domain.Cart
}

func NewCartService(catalog CartCatalog, stock CartStockReader) *CartService {
	return &CartService{
		catalog: catalog,
		stock:   stock,
		carts:   make(map[uint]*domain.Cart),
	}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *CartService) Get(userID uint) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[userID]
	if !ok {
		cart = domain.NewCart()
		s.carts[userID] = cart
	}

	return cart
}

// AddItem snapshots the dish's current price and adds one unit to the
// user's cart, subject to the cross-menu and quantity-cap rules.
func (s *CartService) AddItem(ctx context.Context, userID, dishID, menuDayID uint) (*domain.Cart, error) {
	dish, err := s.catalog.FindDishByID(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("s.catalog.FindDishByID -> %w", err)
	}

	menuDay, err := s.catalog.FindMenuDayByID(ctx, menuDayID)
	if err != nil {
		return nil, fmt.Errorf("s.catalog.FindMenuDayByID -> %w", err)
	}

	available, err := s.readAvailable(ctx, menuDayID, dishID)
	if err != nil {
		return nil, err
	}

	cart := s.Get(userID)
	if err := cart.AddItem(dish, menuDay, available); err != nil {
		return nil, err
	}

	return cart, nil
}

// ChangeQuantity applies a delta to a cart line, clamped against current
// stock; the line disappears when the quantity reaches zero.
func (s *CartService) ChangeQuantity(ctx context.Context, userID, dishID uint, delta int) (*domain.Cart, error) {
	cart := s.Get(userID)
	if cart.IsEmpty() {
		return cart, nil
	}

	available, err := s.readAvailable(ctx, cart.MenuDayID(), dishID)
	if err != nil {
		return nil, err
	}

	cart.ChangeQuantity(dishID, delta, available)

	return cart, nil
}

func (s *CartService) RemoveItem(userID, dishID uint) *domain.Cart {
	cart := s.Get(userID)
	cart.RemoveItem(dishID)

	return cart
}

func (s *CartService) Clear(userID uint) *domain.Cart {
	cart := s.Get(userID)
	cart.Clear()

	return cart
}

func (s *CartService) readAvailable(ctx context.Context, menuDayID, dishID uint) (int, error) {
	units, err := s.stock.Read(ctx, menuDayID, []uint{dishID})
	if err != nil {
		return 0, fmt.Errorf("s.stock.Read -> %w", err)
	}

	return units[dishID], nil
}
