package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvt2810/canteen-api/internal/domain"
)

func TestCart_AddItem(t *testing.T) {
	soup := domain.Dish{ID: 1, Name: "Lentil Soup", PriceCents: 450}
	curry := domain.Dish{ID: 2, Name: "Chicken Curry", PriceCents: 880}
	monday := domain.MenuDay{ID: 10}
	tuesday := domain.MenuDay{ID: 11}

	t.Run("adds one unit and pins the menu day", func(t *testing.T) {
		cart := domain.NewCart()

		err := cart.AddItem(soup, monday, 20)
		require.NoError(t, err)

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, soup.ID, items[0].DishID)
		assert.Equal(t, soup.Name, items[0].DishName)
		assert.Equal(t, soup.PriceCents, items[0].UnitPriceCents)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, monday.ID, cart.MenuDayID())
	})

	t.Run("repeated adds increment the existing line", func(t *testing.T) {
		cart := domain.NewCart()

		for i := 0; i < 3; i++ {
			require.NoError(t, cart.AddItem(soup, monday, 20))
		}

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("quantity stops growing at the per-item cap", func(t *testing.T) {
		cart := domain.NewCart()

		for i := 0; i < domain.PerItemCap+3; i++ {
			require.NoError(t, cart.AddItem(soup, monday, 20))
		}

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, domain.PerItemCap, items[0].Quantity)
	})

	t.Run("quantity stops growing at available stock below the cap", func(t *testing.T) {
		cart := domain.NewCart()

		for i := 0; i < domain.PerItemCap; i++ {
			require.NoError(t, cart.AddItem(soup, monday, 2))
		}

		items := cart.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("sold-out dish never enters the cart", func(t *testing.T) {
		cart := domain.NewCart()

		require.NoError(t, cart.AddItem(soup, monday, 0))

		assert.True(t, cart.IsEmpty())
		assert.Zero(t, cart.MenuDayID())
	})

	t.Run("dish from another menu day is rejected", func(t *testing.T) {
		cart := domain.NewCart()
		require.NoError(t, cart.AddItem(soup, monday, 20))

		err := cart.AddItem(curry, tuesday, 20)

		assert.ErrorIs(t, err, domain.ErrCrossMenuConflict)
		require.Len(t, cart.Items(), 1)
	})

	t.Run("clearing releases the menu-day pin", func(t *testing.T) {
		cart := domain.NewCart()
		require.NoError(t, cart.AddItem(soup, monday, 20))

		cart.Clear()

		require.NoError(t, cart.AddItem(curry, tuesday, 20))
		assert.Equal(t, tuesday.ID, cart.MenuDayID())
	})
}

func TestCart_ChangeQuantity(t *testing.T) {
	soup := domain.Dish{ID: 1, Name: "Lentil Soup", PriceCents: 450}
	monday := domain.MenuDay{ID: 10}

	newCartWith := func(t *testing.T, qty int) *domain.Cart {
		t.Helper()

		cart := domain.NewCart()
		for i := 0; i < qty; i++ {
			require.NoError(t, cart.AddItem(soup, monday, 20))
		}

		return cart
	}

	t.Run("positive delta grows the line", func(t *testing.T) {
		cart := newCartWith(t, 1)

		cart.ChangeQuantity(soup.ID, 2, 20)

		assert.Equal(t, 3, cart.Items()[0].Quantity)
	})

	t.Run("delta past the cap clamps to the cap", func(t *testing.T) {
		cart := newCartWith(t, 1)

		cart.ChangeQuantity(soup.ID, 100, 20)

		assert.Equal(t, domain.PerItemCap, cart.Items()[0].Quantity)
	})

	t.Run("delta past available stock clamps to stock", func(t *testing.T) {
		cart := newCartWith(t, 1)

		cart.ChangeQuantity(soup.ID, 100, 3)

		assert.Equal(t, 3, cart.Items()[0].Quantity)
	})

	t.Run("shrinking stock clamps an existing line downward", func(t *testing.T) {
		cart := newCartWith(t, 4)

		// Another customer bought most of it; only 2 units remain.
		cart.ChangeQuantity(soup.ID, 1, 2)

		assert.Equal(t, 2, cart.Items()[0].Quantity)
	})

	t.Run("delta to zero removes the line and the pin", func(t *testing.T) {
		cart := newCartWith(t, 2)

		cart.ChangeQuantity(soup.ID, -2, 20)

		assert.True(t, cart.IsEmpty())
		assert.Zero(t, cart.MenuDayID())
	})

	t.Run("delta below zero also removes the line", func(t *testing.T) {
		cart := newCartWith(t, 2)

		cart.ChangeQuantity(soup.ID, -10, 20)

		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown dish is a no-op", func(t *testing.T) {
		cart := newCartWith(t, 2)

		cart.ChangeQuantity(999, 1, 20)

		assert.Equal(t, 2, cart.Items()[0].Quantity)
	})
}

func TestCart_TotalCents(t *testing.T) {
	soup := domain.Dish{ID: 1, Name: "Lentil Soup", PriceCents: 450}
	curry := domain.Dish{ID: 2, Name: "Chicken Curry", PriceCents: 880}
	monday := domain.MenuDay{ID: 10}

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(soup, monday, 20))
	require.NoError(t, cart.AddItem(soup, monday, 20))
	require.NoError(t, cart.AddItem(curry, monday, 20))

	assert.Equal(t, int64(2*450+880), cart.TotalCents())

	cart.RemoveItem(curry.ID)

	assert.Equal(t, int64(2*450), cart.TotalCents())
}

func TestCart_ItemsReturnsCopy(t *testing.T) {
	soup := domain.Dish{ID: 1, Name: "Lentil Soup", PriceCents: 450}
	monday := domain.MenuDay{ID: 10}

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(soup, monday, 20))

	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}
