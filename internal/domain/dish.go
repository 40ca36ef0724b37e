package domain

import "time"

type Dish struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type MenuDay struct {
	ID        uint      `json:"id"`
	Date      time.Time `json:"date"`
	Weekday   string    `json:"weekday"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the menu day can still take orders,
// i.e. its date has not passed relative to now.
func (m MenuDay) IsOpen(now time.Time) bool {
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())

	return !m.Date.Before(today)
}

// MenuDayDish is the menu read model: a dish offered on a menu day
// together with its remaining stock.
type MenuDayDish struct {
	Dish           Dish `json:"dish"`
	RemainingUnits int  `json:"remaining_units"`
}
