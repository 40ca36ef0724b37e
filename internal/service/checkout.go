package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMenuDayClosed     = errors.New("menu day is no longer open for orders")
	ErrDuplicateOrder    = repository.ErrDuplicateOrder
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// InsufficientStockError is re-exported so handlers can errors.As into it
// and tell the user which dish ran short and how many units remain.
type InsufficientStockError = repository.InsufficientStockError

type CheckoutOrderRepository interface {
	CreateWithItems(ctx context.Context, order domain.Order) (domain.Order, error)
	HasOpenOrder(ctx context.Context, userID, menuDayID uint) (bool, error)
}

type CheckoutStockReader interface {
	Read(ctx context.Context, menuDayID uint, dishIDs []uint) (map[uint]int, error)
}

type CheckoutCatalog interface {
	FindMenuDayByID(ctx context.Context, id uint) (domain.MenuDay, error)
}

// CheckoutService converts a cart into a persisted order against the stock
// ledger. The pre-checks give early, friendly failures; correctness against
// concurrent checkouts comes from the repository's atomic
// create-and-decrement and the storage-level uniqueness constraint.
type CheckoutService struct {
	orderRepo CheckoutOrderRepository
	stockRepo CheckoutStockReader
	catalog   CheckoutCatalog
	now       func() time.Time
}

func NewCheckoutService(orderRepo CheckoutOrderRepository, stockRepo CheckoutStockReader, catalog CheckoutCatalog) *CheckoutService {
	return &CheckoutService{
		orderRepo: orderRepo,
		stockRepo: stockRepo,
		catalog:   catalog,
		now:       time.Now,
	}
}

// Commit turns the cart into an order.
//
// Failure leaves the cart untouched so the user can adjust quantities and
// retry; the cart is cleared only after the order is durably committed.
func (s *CheckoutService) Commit(ctx context.Context, userID uint, cart *domain.Cart, notes string) (domain.Order, error) {
	if cart.IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	menuDayID := cart.MenuDayID()

	menuDay, err := s.catalog.FindMenuDayByID(ctx, menuDayID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.catalog.FindMenuDayByID -> %w", err)
	}
	if !menuDay.IsOpen(s.now()) {
		return domain.Order{}, ErrMenuDayClosed
	}

	exists, err := s.orderRepo.HasOpenOrder(ctx, userID, menuDayID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orderRepo.HasOpenOrder -> %w", err)
	}
	if exists {
		return domain.Order{}, ErrDuplicateOrder
	}

	items := cart.Items()

	// Friendly pre-validation against the latest ledger state. Not load
	// bearing: the conditional decrement inside CreateWithItems re-checks
	// atomically and is what actually prevents overselling.
	if err := s.validateStock(ctx, menuDayID, items); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		UserID:      userID,
		MenuDayID:   menuDayID,
		OrderNumber: newOrderNumber(),
		Status:      domain.OrderStatusPending,
		Notes:       notes,
		TotalCents:  cart.TotalCents(),
		Visible:     true,
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			DishID:         item.DishID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.UnitPriceCents * int64(item.Quantity),
		})
	}

	created, err := s.orderRepo.CreateWithItems(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orderRepo.CreateWithItems -> %w", err)
	}

	cart.Clear()

	zap.L().Info("order committed",
		zap.Uint("user_id", userID),
		zap.Uint("menu_day_id", menuDayID),
		zap.String("order_number", created.OrderNumber),
		zap.Int64("total_cents", created.TotalCents))

	return created, nil
}

func (s *CheckoutService) validateStock(ctx context.Context, menuDayID uint, items []domain.CartItem) error {
	dishIDs := make([]uint, len(items))
	for i, item := range items {
		dishIDs[i] = item.DishID
	}

	units, err := s.stockRepo.Read(ctx, menuDayID, dishIDs)
	if err != nil {
		return fmt.Errorf("s.stockRepo.Read -> %w", err)
	}

	for _, item := range items {
		available, ok := units[item.DishID]
		if !ok || item.Quantity > available {
			return fmt.Errorf("validate cart -> %w", repository.NewInsufficientStockError(item.DishID, available))
		}
	}

	return nil
}

// newOrderNumber derives a short display token for staff-facing pickup
// surfaces. Global uniqueness is backed by the order_number column's unique
// constraint.
func newOrderNumber() string {
	id := uuid.New()

	return strings.ToUpper(id.String()[:8])
}
