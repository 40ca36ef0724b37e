package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvt2810/canteen-api/internal/domain"
	"github.com/minhvt2810/canteen-api/internal/repository"
)

type stubCartCatalog struct {
	dishes   map[uint]domain.Dish
	menuDays map[uint]domain.MenuDay
}

func (c *stubCartCatalog) FindDishByID(_ context.Context, id uint) (domain.Dish, error) {
	dish, ok := c.dishes[id]
	if !ok {
		return domain.Dish{}, repository.ErrDishNotFound
	}

	return dish, nil
}

func (c *stubCartCatalog) FindMenuDayByID(_ context.Context, id uint) (domain.MenuDay, error) {
	menuDay, ok := c.menuDays[id]
	if !ok {
		return domain.MenuDay{}, repository.ErrMenuDayNotFound
	}

	return menuDay, nil
}

type stubStockReader struct {
	units map[uint]int
}

func (s *stubStockReader) Read(_ context.Context, _ uint, dishIDs []uint) (map[uint]int, error) {
	units := make(map[uint]int, len(dishIDs))
	for _, id := range dishIDs {
		if remaining, ok := s.units[id]; ok {
			units[id] = remaining
		}
	}

	return units, nil
}

func newCartFixture() (*CartService, *stubStockReader) {
	catalog := &stubCartCatalog{
		dishes: map[uint]domain.Dish{
			1: {ID: 1, Name: "Lentil Soup", PriceCents: 450},
			2: {ID: 2, Name: "Chicken Curry", PriceCents: 880},
		},
		menuDays: map[uint]domain.MenuDay{
			10: {ID: 10},
			11: {ID: 11},
		},
	}
	stock := &stubStockReader{units: map[uint]int{1: 20, 2: 3}}

	return NewCartService(catalog, stock), stock
}

func TestCartService_Get(t *testing.T) {
	svc, _ := newCartFixture()

	alice := svc.Get(1)
	bob := svc.Get(2)

	assert.NotSame(t, alice, bob)
	assert.Same(t, alice, svc.Get(1))
}

func TestCartService_AddItem(t *testing.T) {
	t.Run("adds with snapshot price", func(t *testing.T) {
		svc, _ := newCartFixture()

		cart, err := svc.AddItem(context.Background(), 1, 1, 10)

		require.NoError(t, err)
		require.Len(t, cart.Items(), 1)
		assert.Equal(t, int64(450), cart.Items()[0].UnitPriceCents)
	})

	t.Run("unknown dish", func(t *testing.T) {
		svc, _ := newCartFixture()

		_, err := svc.AddItem(context.Background(), 1, 99, 10)

		assert.ErrorIs(t, err, repository.ErrDishNotFound)
	})

	t.Run("unknown menu day", func(t *testing.T) {
		svc, _ := newCartFixture()

		_, err := svc.AddItem(context.Background(), 1, 1, 99)

		assert.ErrorIs(t, err, repository.ErrMenuDayNotFound)
	})

	t.Run("second menu day conflicts", func(t *testing.T) {
		svc, _ := newCartFixture()
		_, err := svc.AddItem(context.Background(), 1, 1, 10)
		require.NoError(t, err)

		_, err = svc.AddItem(context.Background(), 1, 2, 11)

		assert.ErrorIs(t, err, ErrCrossMenuConflict)
	})

	t.Run("adds clamp to remaining stock", func(t *testing.T) {
		svc, _ := newCartFixture()

		// Dish 2 has 3 units left; the cap should hold at 3.
		var cart *domain.Cart
		for i := 0; i < domain.PerItemCap; i++ {
			var err error
			cart, err = svc.AddItem(context.Background(), 1, 2, 10)
			require.NoError(t, err)
		}

		assert.Equal(t, 3, cart.Items()[0].Quantity)
	})
}

func TestCartService_ChangeQuantity(t *testing.T) {
	svc, stock := newCartFixture()
	_, err := svc.AddItem(context.Background(), 1, 1, 10)
	require.NoError(t, err)

	cart, err := svc.ChangeQuantity(context.Background(), 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items()[0].Quantity)

	// Stock dropped in the meantime; the next change clamps down.
	stock.units[1] = 2
	cart, err = svc.ChangeQuantity(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items()[0].Quantity)

	cart, err = svc.ChangeQuantity(context.Background(), 1, 1, -5)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc, _ := newCartFixture()
	_, err := svc.AddItem(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), 1, 2, 10)
	require.NoError(t, err)

	cart := svc.RemoveItem(1, 1)
	require.Len(t, cart.Items(), 1)

	cart = svc.Clear(1)
	assert.True(t, cart.IsEmpty())
}
