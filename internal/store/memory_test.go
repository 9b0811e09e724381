package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, m *MemoryStore, userID int64, name, price string, quantity int) *models.Product {
	t.Helper()
	p := &models.Product{
		UserID:   userID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
	require.NoError(t, m.CreateProduct(context.Background(), p))
	return p
}

func TestMemoryStore_ProductLifecycle(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := seedProduct(t, m, 1, "Keyboard", "49.90", 10)
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := m.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("49.90")))

	require.NoError(t, m.SetProductQuantity(ctx, p.ID, 7))
	got, err = m.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	_, err = m.GetProductByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.SetProductQuantity(ctx, 999, 1), ErrNotFound)
}

func TestMemoryStore_ListAndSearch(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	older := &models.Product{
		UserID:    1,
		Name:      "Green Tea",
		Price:     decimal.RequireFromString("4.00"),
		Quantity:  3,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, m.CreateProduct(ctx, older))
	newer := &models.Product{
		UserID:    1,
		Name:      "Black Tea",
		Price:     decimal.RequireFromString("5.00"),
		Quantity:  3,
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, m.CreateProduct(ctx, newer))
	seedProduct(t, m, 2, "Coffee", "8.00", 1)

	list, err := m.ListProductsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Black Tea", list[0].Name) // newest first

	found, err := m.SearchProductsByUser(ctx, 1, "tea")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = m.SearchProductsByUser(ctx, 1, "coffee")
	require.NoError(t, err)
	assert.Empty(t, found) // other user's product is not visible
}

func TestMemoryStore_TransactionRollback(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := seedProduct(t, m, 1, "Mug", "12.00", 5)

	boom := errors.New("boom")
	err := m.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, m.SetProductQuantity(ctx, p.ID, 1))

		txn := &models.Transaction{}
		require.NoError(t, m.CreateTransaction(ctx, txn))
		require.NoError(t, m.CreateTransactionItem(ctx, &models.TransactionItem{
			TransactionID:      txn.ID,
			ProductID:          p.ID,
			Quantity:           4,
			PriceAtTransaction: p.Price,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "quantity must be restored on rollback")

	txs, err := m.GetTransactionsByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, txs, "no transaction may survive a rollback")
}

func TestMemoryStore_TransactionCommit(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := seedProduct(t, m, 1, "Mug", "12.00", 5)

	err := m.WithTransaction(ctx, func(ctx context.Context) error {
		txn := &models.Transaction{}
		if err := m.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		return m.CreateTransactionItem(ctx, &models.TransactionItem{
			TransactionID:      txn.ID,
			ProductID:          p.ID,
			Quantity:           2,
			PriceAtTransaction: p.Price,
		})
	})
	require.NoError(t, err)

	txs, err := m.GetTransactionsByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	items, err := m.GetTransactionItems(ctx, txs[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mug", items[0].ProductName)
	assert.True(t, items[0].PriceAtTransaction.Equal(decimal.RequireFromString("12.00")))
}

func TestMemoryStore_MonthlyRevenueByOwner(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := seedProduct(t, m, 1, "Lamp", "10.50", 100)
	other := seedProduct(t, m, 2, "Chair", "99.99", 100)

	addSale := func(created time.Time, product *models.Product, qty int) {
		txn := &models.Transaction{CreatedAt: created}
		require.NoError(t, m.CreateTransaction(ctx, txn))
		require.NoError(t, m.CreateTransactionItem(ctx, &models.TransactionItem{
			TransactionID:      txn.ID,
			ProductID:          product.ID,
			Quantity:           qty,
			PriceAtTransaction: product.Price,
		}))
	}

	feb := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
	jan := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	addSale(feb, p, 2)
	addSale(jan, p, 1)
	addSale(jan, p, 3)
	addSale(jan, other, 5) // different owner, must not leak in

	entries, err := m.MonthlyRevenueByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2025-01", entries[0].Month)
	assert.True(t, entries[0].Revenue.Equal(decimal.RequireFromString("42.00")),
		"got %s", entries[0].Revenue)
	assert.Equal(t, "2025-02", entries[1].Month)
	assert.True(t, entries[1].Revenue.Equal(decimal.RequireFromString("21.00")),
		"got %s", entries[1].Revenue)

	empty, err := m.MonthlyRevenueByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_TransactionsByOwnerOrdering(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := seedProduct(t, m, 1, "Pen", "1.00", 100)

	times := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, ts := range times {
		txn := &models.Transaction{CreatedAt: ts}
		require.NoError(t, m.CreateTransaction(ctx, txn))
		require.NoError(t, m.CreateTransactionItem(ctx, &models.TransactionItem{
			TransactionID:      txn.ID,
			ProductID:          p.ID,
			Quantity:           1,
			PriceAtTransaction: p.Price,
		}))
	}

	txs, err := m.GetTransactionsByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i-1].CreatedAt.Before(txs[i].CreatedAt), "history must be newest first")
	}
}
