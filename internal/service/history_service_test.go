package service

import (
	"context"
	"testing"
	"time"

	"sales-ledger/internal/models"
	"sales-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionHistory_NewestFirstWithTotals(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewHistoryService(m)

	p := seedProduct(t, m, 1, "Lamp", "10.00", 100)

	seedSale(t, m, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p, 1)
	seedSale(t, m, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), p, 3)

	history, err := svc.GetTransactionHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt), "newest first")
	assert.True(t, history[0].Total.Equal(decimal.RequireFromString("30.00")), "got %s", history[0].Total)
	assert.True(t, history[1].Total.Equal(decimal.RequireFromString("10.00")), "got %s", history[1].Total)
	require.Len(t, history[0].Items, 1)
	assert.Equal(t, "Lamp", history[0].Items[0].ProductName)
}

func TestGetTransactionHistory_MixedOwnersSeeFullTransaction(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewHistoryService(m)

	mine := seedProduct(t, m, 1, "Lamp", "10.00", 100)
	theirs := seedProduct(t, m, 2, "Chair", "50.00", 100)

	// one transaction containing both owners' products
	txn := &models.Transaction{CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, m.CreateTransaction(context.Background(), txn))
	for _, line := range []struct {
		product  *models.Product
		quantity int
	}{
		{mine, 2},
		{theirs, 1},
	} {
		require.NoError(t, m.CreateTransactionItem(context.Background(), &models.TransactionItem{
			TransactionID:      txn.ID,
			ProductID:          line.product.ID,
			Quantity:           line.quantity,
			PriceAtTransaction: line.product.Price,
		}))
	}

	mineHistory, err := svc.GetTransactionHistory(context.Background(), 1)
	require.NoError(t, err)
	theirHistory, err := svc.GetTransactionHistory(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, mineHistory, 1)
	require.Len(t, theirHistory, 1)

	// each owner sees the whole transaction, items and total included
	assert.Len(t, mineHistory[0].Items, 2)
	assert.Len(t, theirHistory[0].Items, 2)
	expectedTotal := decimal.RequireFromString("70.00")
	assert.True(t, mineHistory[0].Total.Equal(expectedTotal), "got %s", mineHistory[0].Total)
	assert.True(t, theirHistory[0].Total.Equal(expectedTotal), "got %s", theirHistory[0].Total)
}

func TestGetTransactionHistory_Empty(t *testing.T) {
	m := store.NewMemoryStore()
	svc := NewHistoryService(m)

	history, err := svc.GetTransactionHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, history)
}
