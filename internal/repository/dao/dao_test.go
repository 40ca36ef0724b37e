package dao_test

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minhvt2810/canteen-api/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=canteen_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://postgres:secret@%v/canteen_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func mustCreateStock(t *testing.T, menuDayID, dishID uint, units int) {
	t.Helper()

	_, err := dao.NewStockDAO(testDB).Insert(context.Background(), dao.StockEntry{
		MenuDayID:      menuDayID,
		DishID:         dishID,
		RemainingUnits: units,
	})
	require.NoError(t, err)
}

func readUnits(t *testing.T, menuDayID, dishID uint) int {
	t.Helper()

	units, err := dao.NewStockDAO(testDB).Read(context.Background(), menuDayID, []uint{dishID})
	require.NoError(t, err)

	return units[dishID]
}

func TestStockDAO_Decrement(t *testing.T) {
	ctx := context.Background()
	stockDAO := dao.NewStockDAO(testDB)

	t.Run("takes units while enough remain", func(t *testing.T) {
		mustCreateStock(t, 100, 1, 5)

		require.NoError(t, stockDAO.Decrement(ctx, 100, 1, 3))
		assert.Equal(t, 2, readUnits(t, 100, 1))
	})

	t.Run("refuses to go below zero", func(t *testing.T) {
		mustCreateStock(t, 101, 1, 2)

		err := stockDAO.Decrement(ctx, 101, 1, 3)

		var stockErr *dao.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, uint(1), stockErr.DishID)
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 2, readUnits(t, 101, 1))
	})

	t.Run("missing ledger row", func(t *testing.T) {
		err := stockDAO.Decrement(ctx, 102, 9999, 1)

		assert.ErrorIs(t, err, dao.ErrStockEntryNotFound)
	})

	t.Run("concurrent decrements never oversell", func(t *testing.T) {
		mustCreateStock(t, 103, 1, 5)

		const attempts = 20

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				if err := stockDAO.Decrement(ctx, 103, 1, 1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		assert.Equal(t, 0, readUnits(t, 103, 1))
	})
}

func TestStockDAO_Insert(t *testing.T) {
	ctx := context.Background()
	stockDAO := dao.NewStockDAO(testDB)

	mustCreateStock(t, 110, 1, 5)

	_, err := stockDAO.Insert(ctx, dao.StockEntry{MenuDayID: 110, DishID: 1, RemainingUnits: 3})

	assert.ErrorIs(t, err, dao.ErrStockEntryExists)
	assert.Equal(t, 5, readUnits(t, 110, 1))
}

func TestStockDAO_SetUnits(t *testing.T) {
	ctx := context.Background()
	stockDAO := dao.NewStockDAO(testDB)

	mustCreateStock(t, 111, 1, 5)

	require.NoError(t, stockDAO.SetUnits(ctx, 111, 1, 12))
	assert.Equal(t, 12, readUnits(t, 111, 1))

	assert.ErrorIs(t, stockDAO.SetUnits(ctx, 111, 9999, 1), dao.ErrStockEntryNotFound)
}

func newTestOrder(userID, menuDayID uint, number string) dao.Order {
	return dao.Order{
		UserID:      userID,
		MenuDayID:   menuDayID,
		OrderNumber: number,
		Status:      "PENDING",
		TotalCents:  900,
		Visible:     true,
	}
}

func TestOrderDAO_InsertWithItems(t *testing.T) {
	ctx := context.Background()
	orderDAO := dao.NewOrderDAO(testDB)

	t.Run("creates the order and decrements stock atomically", func(t *testing.T) {
		mustCreateStock(t, 200, 1, 5)
		mustCreateStock(t, 200, 2, 5)

		order, err := orderDAO.InsertWithItems(ctx, newTestOrder(1, 200, "AAAA0001"), []dao.OrderItem{
			{DishID: 1, Quantity: 2, UnitPriceCents: 450, SubtotalCents: 900},
			{DishID: 2, Quantity: 1, UnitPriceCents: 880, SubtotalCents: 880},
		})
		require.NoError(t, err)
		require.NotZero(t, order.ID)

		assert.Equal(t, 3, readUnits(t, 200, 1))
		assert.Equal(t, 4, readUnits(t, 200, 2))

		found, err := orderDAO.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 2)
	})

	t.Run("a failed decrement rolls back the whole order", func(t *testing.T) {
		mustCreateStock(t, 201, 1, 5)
		mustCreateStock(t, 201, 2, 1)

		_, err := orderDAO.InsertWithItems(ctx, newTestOrder(1, 201, "AAAA0002"), []dao.OrderItem{
			{DishID: 1, Quantity: 2, UnitPriceCents: 450, SubtotalCents: 900},
			{DishID: 2, Quantity: 3, UnitPriceCents: 880, SubtotalCents: 2640},
		})

		var stockErr *dao.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, uint(2), stockErr.DishID)

		// The first item's decrement must have been rolled back.
		assert.Equal(t, 5, readUnits(t, 201, 1))
		assert.Equal(t, 1, readUnits(t, 201, 2))
	})

	t.Run("second open order for the same menu day is rejected", func(t *testing.T) {
		mustCreateStock(t, 202, 1, 10)

		_, err := orderDAO.InsertWithItems(ctx, newTestOrder(3, 202, "AAAA0003"), []dao.OrderItem{
			{DishID: 1, Quantity: 1, UnitPriceCents: 450, SubtotalCents: 450},
		})
		require.NoError(t, err)

		_, err = orderDAO.InsertWithItems(ctx, newTestOrder(3, 202, "AAAA0004"), []dao.OrderItem{
			{DishID: 1, Quantity: 1, UnitPriceCents: 450, SubtotalCents: 450},
		})

		assert.ErrorIs(t, err, dao.ErrDuplicateOrder)

		// The duplicate's decrement must have been rolled back with it.
		assert.Equal(t, 9, readUnits(t, 202, 1))
	})

	t.Run("a withdrawn fulfilled order does not block a new one", func(t *testing.T) {
		mustCreateStock(t, 203, 1, 10)

		first, err := orderDAO.InsertWithItems(ctx, newTestOrder(4, 203, "AAAA0005"), []dao.OrderItem{
			{DishID: 1, Quantity: 1, UnitPriceCents: 450, SubtotalCents: 450},
		})
		require.NoError(t, err)

		require.NoError(t, orderDAO.UpdateStatus(ctx, first.ID, "FULFILLED"))
		require.NoError(t, orderDAO.Withdraw(ctx, first.ID))

		// The hidden row stays behind, but the partial index ignores it.
		_, err = orderDAO.InsertWithItems(ctx, newTestOrder(4, 203, "AAAA0006"), []dao.OrderItem{
			{DishID: 1, Quantity: 1, UnitPriceCents: 450, SubtotalCents: 450},
		})

		assert.NoError(t, err)
	})
}

func TestOrderDAO_Withdraw(t *testing.T) {
	ctx := context.Background()
	orderDAO := dao.NewOrderDAO(testDB)

	t.Run("pending withdrawal restores stock and deletes the order", func(t *testing.T) {
		mustCreateStock(t, 300, 1, 5)

		order, err := orderDAO.InsertWithItems(ctx, newTestOrder(1, 300, "BBBB0001"), []dao.OrderItem{
			{DishID: 1, Quantity: 2, UnitPriceCents: 450, SubtotalCents: 900},
		})
		require.NoError(t, err)
		require.Equal(t, 3, readUnits(t, 300, 1))

		// The migration wires the items foreign key, so the order row can
		// only go once its item rows are gone.
		require.True(t, testDB.Migrator().HasConstraint(&dao.Order{}, "Items"))

		require.NoError(t, orderDAO.Withdraw(ctx, order.ID))

		assert.Equal(t, 5, readUnits(t, 300, 1))

		_, err = orderDAO.FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, dao.ErrOrderNotFound)

		var itemCount int64
		require.NoError(t, testDB.Model(&dao.OrderItem{}).
			Where("order_id = ?", order.ID).
			Count(&itemCount).Error)
		assert.Zero(t, itemCount)
	})

	t.Run("fulfilled withdrawal only hides the order", func(t *testing.T) {
		mustCreateStock(t, 301, 1, 5)

		order, err := orderDAO.InsertWithItems(ctx, newTestOrder(1, 301, "BBBB0002"), []dao.OrderItem{
			{DishID: 1, Quantity: 2, UnitPriceCents: 450, SubtotalCents: 900},
		})
		require.NoError(t, err)
		require.NoError(t, orderDAO.UpdateStatus(ctx, order.ID, "FULFILLED"))

		require.NoError(t, orderDAO.Withdraw(ctx, order.ID))

		// Stock stays consumed and the row survives for staff listings.
		assert.Equal(t, 3, readUnits(t, 301, 1))

		found, err := orderDAO.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.False(t, found.Visible)

		visible, err := orderDAO.FindVisibleByUser(ctx, 1)
		require.NoError(t, err)
		for _, o := range visible {
			assert.NotEqual(t, order.ID, o.ID)
		}

		byDay, err := orderDAO.FindByMenuDay(ctx, 301)
		require.NoError(t, err)
		require.Len(t, byDay, 1)
	})

	t.Run("a concurrent reopen aborts the hide", func(t *testing.T) {
		mustCreateStock(t, 304, 1, 5)

		order, err := orderDAO.InsertWithItems(ctx, newTestOrder(1, 304, "BBBB0004"), []dao.OrderItem{
			{DishID: 1, Quantity: 2, UnitPriceCents: 450, SubtotalCents: 900},
		})
		require.NoError(t, err)
		require.NoError(t, orderDAO.UpdateStatus(ctx, order.ID, "FULFILLED"))

		// Flip the order back to PENDING right before the hide lands, as a
		// staff reopen racing the withdrawal would.
		var reopen sync.Once
		const callbackName = "canteen:reopen_before_hide"
		require.NoError(t, testDB.Callback().Update().Before("gorm:update").
			Register(callbackName, func(db *gorm.DB) {
				reopen.Do(func() {
					db.Session(&gorm.Session{NewDB: true}).
						Exec("UPDATE orders SET status = 'PENDING' WHERE id = ?", order.ID)
				})
			}))
		defer testDB.Callback().Update().Remove(callbackName)

		err = orderDAO.Withdraw(ctx, order.ID)

		assert.ErrorIs(t, err, dao.ErrWithdrawalConflict)

		// The rollback reverts the reopen as well; nothing was hidden.
		found, err := orderDAO.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, found.Visible)
		assert.Equal(t, "FULFILLED", found.Status)
	})

	t.Run("a failed restore aborts the whole withdrawal", func(t *testing.T) {
		mustCreateStock(t, 302, 1, 5)

		order, err := orderDAO.InsertWithItems(ctx, newTestOrder(1, 302, "BBBB0003"), []dao.OrderItem{
			{DishID: 1, Quantity: 2, UnitPriceCents: 450, SubtotalCents: 900},
		})
		require.NoError(t, err)

		// Rip out the ledger row so the restore has nowhere to go.
		require.NoError(t, testDB.Where("menu_day_id = ? AND dish_id = ?", 302, 1).
			Delete(&dao.StockEntry{}).Error)

		err = orderDAO.Withdraw(ctx, order.ID)

		assert.ErrorIs(t, err, dao.ErrWithdrawalConflict)

		// Fail closed: the order and its items must have survived.
		found, err := orderDAO.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 1)
	})

	t.Run("missing order", func(t *testing.T) {
		assert.ErrorIs(t, orderDAO.Withdraw(ctx, 999999), dao.ErrOrderNotFound)
	})
}

func TestOrderDAO_HasOpenOrder(t *testing.T) {
	ctx := context.Background()
	orderDAO := dao.NewOrderDAO(testDB)

	mustCreateStock(t, 400, 1, 5)

	has, err := orderDAO.HasOpenOrder(ctx, 6, 400)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = orderDAO.InsertWithItems(ctx, newTestOrder(6, 400, "CCCC0001"), []dao.OrderItem{
		{DishID: 1, Quantity: 1, UnitPriceCents: 450, SubtotalCents: 450},
	})
	require.NoError(t, err)

	has, err = orderDAO.HasOpenOrder(ctx, 6, 400)
	require.NoError(t, err)
	assert.True(t, has)
}
