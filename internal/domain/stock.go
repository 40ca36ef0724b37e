package domain

// StockEntry is one row of the stock ledger: the remaining units of a dish
// on a menu day. RemainingUnits never goes negative.
type StockEntry struct {
	ID             uint `json:"id"`
	MenuDayID      uint `json:"menu_day_id"`
	DishID         uint `json:"dish_id"`
	RemainingUnits int  `json:"remaining_units"`
}
