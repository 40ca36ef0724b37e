package response

import "github.com/minhvt2810/canteen-api/internal/domain"

type CartResponse struct {
	MenuDayID  uint              `json:"menu_day_id,omitempty"`
	Items      []domain.CartItem `json:"items"`
	TotalCents int64             `json:"total_cents"`
}

func NewCartResponse(cart *domain.Cart) CartResponse {
	return CartResponse{
		MenuDayID:  cart.MenuDayID(),
		Items:      cart.Items(),
		TotalCents: cart.TotalCents(),
	}
}
