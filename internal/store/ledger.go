package store

import (
	"context"

	"sales-ledger/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateTransaction inserts a new transaction row
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return sqlx.GetContext(ctx, s.ext(ctx), t,
		"INSERT INTO transactions DEFAULT VALUES RETURNING id, created_at")
}

// CreateTransactionItem inserts a line item. Rows are append-only;
// there is no update path.
func (s *Store) CreateTransactionItem(ctx context.Context, item *models.TransactionItem) error {
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price_at_transaction)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return sqlx.GetContext(ctx, s.ext(ctx), &item.ID, query,
		item.TransactionID, item.ProductID, item.Quantity, item.PriceAtTransaction)
}

// GetTransactionsByOwner retrieves transactions that contain at least
// one line item for a product owned by ownerID, newest first.
func (s *Store) GetTransactionsByOwner(ctx context.Context, ownerID int64) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	err := sqlx.SelectContext(ctx, s.ext(ctx), &transactions,
		`SELECT DISTINCT t.id, t.created_at
		 FROM transactions t
		 JOIN transaction_items ti ON ti.transaction_id = t.id
		 JOIN products p ON p.id = ti.product_id
		 WHERE p.user_id = $1
		 ORDER BY t.created_at DESC, t.id DESC`,
		ownerID)
	return transactions, err
}

// GetTransactionItems retrieves all line items of a transaction with
// the referenced product's name and image joined in.
func (s *Store) GetTransactionItems(ctx context.Context, transactionID int64) ([]models.TransactionItem, error) {
	items := []models.TransactionItem{}
	err := sqlx.SelectContext(ctx, s.ext(ctx), &items,
		`SELECT ti.id, ti.transaction_id, ti.product_id, ti.quantity, ti.price_at_transaction,
		        p.name AS product_name, p.image_ref AS product_image_ref
		 FROM transaction_items ti
		 JOIN products p ON p.id = ti.product_id
		 WHERE ti.transaction_id = $1
		 ORDER BY ti.id`,
		transactionID)
	return items, err
}

// MonthlyRevenueByOwner sums revenue over the owner's line items,
// bucketed by the transaction's calendar month, ascending.
func (s *Store) MonthlyRevenueByOwner(ctx context.Context, ownerID int64) ([]models.MonthlyRevenue, error) {
	entries := []models.MonthlyRevenue{}
	err := sqlx.SelectContext(ctx, s.ext(ctx), &entries,
		`SELECT to_char(date_trunc('month', t.created_at), 'YYYY-MM') AS month,
		        SUM(ti.quantity * ti.price_at_transaction) AS revenue
		 FROM transaction_items ti
		 JOIN transactions t ON t.id = ti.transaction_id
		 JOIN products p ON p.id = ti.product_id
		 WHERE p.user_id = $1
		 GROUP BY 1
		 ORDER BY 1`,
		ownerID)
	return entries, err
}
