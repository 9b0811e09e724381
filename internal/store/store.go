package store

import (
	"context"
	"errors"

	"sales-ledger/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// InventoryStore is the durable record of products. The order core only
// ever mutates a product's quantity; everything else is listing CRUD.
type InventoryStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// GetProductForUpdate locks the product row for the duration of the
	// enclosing transaction so concurrent decrements are serialized.
	GetProductForUpdate(ctx context.Context, id int64) (*models.Product, error)
	SetProductQuantity(ctx context.Context, id int64, quantity int) error
	ListProductsByUser(ctx context.Context, userID int64) ([]models.Product, error)
	SearchProductsByUser(ctx context.Context, userID int64, query string) ([]models.Product, error)
}

// LedgerStore is the append-only record of transactions and their line
// items. Rows are immutable once written.
type LedgerStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	CreateTransactionItem(ctx context.Context, item *models.TransactionItem) error
	// GetTransactionsByOwner returns transactions having at least one
	// item whose product belongs to ownerID, newest first. Items are not
	// attached; use GetTransactionItems.
	GetTransactionsByOwner(ctx context.Context, ownerID int64) ([]models.Transaction, error)
	GetTransactionItems(ctx context.Context, transactionID int64) ([]models.TransactionItem, error)
	// MonthlyRevenueByOwner sums quantity * price_at_transaction over the
	// owner's line items, grouped by the transaction's calendar month,
	// ascending.
	MonthlyRevenueByOwner(ctx context.Context, ownerID int64) ([]models.MonthlyRevenue, error)
}

// TxManager runs fn inside one atomic unit. Every store call made with
// the ctx passed to fn joins that unit; if fn returns an error all of
// its writes are rolled back.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
