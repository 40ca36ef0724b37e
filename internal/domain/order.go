package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusInactive  OrderStatus = "INACTIVE"
)

// ParseOrderStatus maps a raw string onto the closed status enumeration.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusFulfilled, OrderStatusInactive:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

type Order struct {
	ID          uint        `json:"id"`
	UserID      uint        `json:"user_id"`
	MenuDayID   uint        `json:"menu_day_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	Notes       string      `json:"notes,omitempty"`
	TotalCents  int64       `json:"total_cents"`
	Visible     bool        `json:"-"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID             uint  `json:"id"`
	OrderID        uint  `json:"order_id"`
	DishID         uint  `json:"dish_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	SubtotalCents  int64 `json:"subtotal_cents"`
}
