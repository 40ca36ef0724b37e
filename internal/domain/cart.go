package domain

import "errors"

// PerItemCap is the maximum quantity of a single dish one cart may hold,
// regardless of remaining stock.
const PerItemCap = 5

var ErrCrossMenuConflict = errors.New("cart already holds items from another menu day")

type CartItem struct {
	DishID         uint   `json:"dish_id"`
	DishName       string `json:"dish_name"`
	MenuDayID      uint   `json:"menu_day_id"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// Cart is a per-user working set of dish selections for a single menu day.
// It is owned by one session and is not safe for concurrent use; callers
// that share carts across goroutines must synchronize externally.
//
// A cart is not a reservation. Holding items never touches the stock
// ledger; stock is only consumed when the cart is committed at checkout.
type Cart struct {
	menuDayID uint
	items     []CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem puts one unit of the dish into the cart, snapshotting its price.
//
// A non-empty cart is pinned to its menu day; adding a dish from another
// menu day fails with ErrCrossMenuConflict until the cart is cleared.
// If the dish is already present, its quantity grows by one only while
// below min(PerItemCap, availableStock); at the cap the call is a no-op,
// mirroring a disabled "add" control rather than an error.
func (c *Cart) AddItem(dish Dish, menuDay MenuDay, availableStock int) error {
	if len(c.items) > 0 && c.menuDayID != menuDay.ID {
		return ErrCrossMenuConflict
	}

	limit := quantityCap(availableStock)

	for i := range c.items {
		if c.items[i].DishID == dish.ID {
			if c.items[i].Quantity < limit {
				c.items[i].Quantity++
			}

			return nil
		}
	}

	if limit < 1 {
		return nil
	}

	c.menuDayID = menuDay.ID
	c.items = append(c.items, CartItem{
		DishID:         dish.ID,
		DishName:       dish.Name,
		MenuDayID:      menuDay.ID,
		UnitPriceCents: dish.PriceCents,
		Quantity:       1,
	})

	return nil
}

// ChangeQuantity applies delta to the dish's quantity, clamping at
// min(PerItemCap, availableStock). The item is removed entirely when the
// resulting quantity drops to zero or below. Unknown dishes are ignored.
func (c *Cart) ChangeQuantity(dishID uint, delta, availableStock int) {
	for i := range c.items {
		if c.items[i].DishID != dishID {
			continue
		}

		qty := c.items[i].Quantity + delta
		if limit := quantityCap(availableStock); qty > limit {
			qty = limit
		}

		if qty <= 0 {
			c.removeAt(i)

			return
		}

		c.items[i].Quantity = qty

		return
	}
}

func (c *Cart) RemoveItem(dishID uint) {
	for i := range c.items {
		if c.items[i].DishID == dishID {
			c.removeAt(i)

			return
		}
	}
}

// Clear empties the cart and releases its menu-day pin.
func (c *Cart) Clear() {
	c.menuDayID = 0
	c.items = nil
}

// TotalCents is the sum of snapshot price times quantity over all items.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.items {
		total += it.UnitPriceCents * int64(it.Quantity)
	}

	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) MenuDayID() uint {
	return c.menuDayID
}

// Items returns a copy of the cart's contents.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)

	return items
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
	if len(c.items) == 0 {
		c.menuDayID = 0
	}
}

func quantityCap(availableStock int) int {
	if availableStock < PerItemCap {
		return availableStock
	}

	return PerItemCap
}
