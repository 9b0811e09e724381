package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a listing owned by exactly one user. The core only ever
// mutates Quantity; owner and price are fixed at listing time.
type Product struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Quantity  int             `db:"quantity" json:"quantity"`
	ImageRef  string          `db:"image_ref" json:"image_ref"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Transaction is an immutable sale record, created atomically with all
// of its items or not at all.
type Transaction struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Items []TransactionItem `db:"-" json:"items,omitempty"`

	// Total is the sum of quantity * price_at_transaction over all items.
	// Computed on read, never stored.
	Total decimal.Decimal `db:"-" json:"total_amount"`
}

// TransactionItem is one line of a transaction. PriceAtTransaction is
// frozen at sale time and never recomputed.
type TransactionItem struct {
	ID                 int64           `db:"id" json:"id"`
	TransactionID      int64           `db:"transaction_id" json:"transaction_id"`
	ProductID          int64           `db:"product_id" json:"product_id"`
	Quantity           int             `db:"quantity" json:"quantity"`
	PriceAtTransaction decimal.Decimal `db:"price_at_transaction" json:"price_at_transaction"`

	// Denormalized product fields, filled on joined reads.
	ProductName     string `db:"product_name" json:"product_name"`
	ProductImageRef string `db:"product_image_ref" json:"product_image_ref,omitempty"`
}

// Subtotal returns quantity * price_at_transaction for this line.
func (it TransactionItem) Subtotal() decimal.Decimal {
	return it.PriceAtTransaction.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// MonthlyRevenue is one revenue bucket, Month formatted as "YYYY-MM".
type MonthlyRevenue struct {
	Month   string          `db:"month" json:"month"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}
