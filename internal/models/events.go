package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleRecorded = "SALE_RECORDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleRecordedEvent is published after a transaction commits.
type SaleRecordedEvent struct {
	BaseEvent
	TransactionID int64           `json:"transaction_id"`
	BuyerID       int64           `json:"buyer_id"`
	Total         decimal.Decimal `json:"total_amount"`
	Items         []SaleItemData  `json:"items"`
}

// SaleItemData carries per-line data in events. SellerID is the owner
// of the sold product, which consumers use to invalidate that seller's
// cached aggregates.
type SaleItemData struct {
	ProductID int64           `json:"product_id"`
	SellerID  int64           `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
