package response

import (
	"time"

	"github.com/minhvt2810/canteen-api/internal/domain"
)

type OrderResponse struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"order_number"`
	MenuDayID   uint               `json:"menu_day_id"`
	Status      string             `json:"status"`
	Notes       string             `json:"notes,omitempty"`
	TotalCents  int64              `json:"total_cents"`
	Items       []domain.OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func NewOrderResponse(order domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		MenuDayID:   order.MenuDayID,
		Status:      string(order.Status),
		Notes:       order.Notes,
		TotalCents:  order.TotalCents,
		Items:       order.Items,
		CreatedAt:   order.CreatedAt,
	}
}

func NewOrdersResponse(orders []domain.Order) []OrderResponse {
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = NewOrderResponse(o)
	}

	return resp
}
