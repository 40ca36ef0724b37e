package response

import (
	"time"

	"github.com/minhvt2810/canteen-api/internal/domain"
)

type MenuDayResponse struct {
	ID      uint       `json:"id"`
	Date    time.Time  `json:"date"`
	Weekday string     `json:"weekday"`
	Dishes  []MenuDish `json:"dishes,omitempty"`
}

type MenuDish struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	PriceCents     int64  `json:"price_cents"`
	Category       string `json:"category"`
	RemainingUnits int    `json:"remaining_units"`
}

func NewMenuDayResponse(menuDay domain.MenuDay, dishes []domain.MenuDayDish) MenuDayResponse {
	resp := MenuDayResponse{
		ID:      menuDay.ID,
		Date:    menuDay.Date,
		Weekday: menuDay.Weekday,
	}

	for _, d := range dishes {
		resp.Dishes = append(resp.Dishes, MenuDish{
			ID:             d.Dish.ID,
			Name:           d.Dish.Name,
			PriceCents:     d.Dish.PriceCents,
			Category:       d.Dish.Category,
			RemainingUnits: d.RemainingUnits,
		})
	}

	return resp
}
