package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales-ledger/internal/models"
	"sales-ledger/internal/store"
	"sales-ledger/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalePublisher publishes domain events after a sale commits.
type SalePublisher interface {
	PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error
}

// OrderService processes sales: it validates stock, decrements
// inventory and appends the transaction with its line items to the
// ledger as a single atomic unit.
type OrderService struct {
	inventory store.InventoryStore
	ledger    store.LedgerStore
	tx        store.TxManager
	publisher SalePublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil
// when no broker is configured.
func NewOrderService(
	inventory store.InventoryStore,
	ledger store.LedgerStore,
	tx store.TxManager,
	publisher SalePublisher,
) *OrderService {
	return &OrderService{
		inventory: inventory,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// OrderItemRequest represents one requested (product, quantity) pair
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// ProcessOrder records a sale for buyerID. Items are processed in the
// given order; the first failing item determines the error and the
// whole unit is rolled back, so inventory and ledger are unchanged on
// any failure. On success it returns the persisted transaction with
// its line items, each carrying the product's price at this moment.
func (s *OrderService) ProcessOrder(ctx context.Context, buyerID int64, items []OrderItemRequest) (*models.Transaction, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ProcessOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_order").Inc()
		return nil, ErrEmptyOrder
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			util.OrdersFailedTotal.WithLabelValues("invalid_quantity").Inc()
			return nil, &InvalidRequestError{
				Reason: fmt.Sprintf("quantity must be positive for product %d", it.ProductID),
			}
		}
	}

	var created *models.Transaction
	sellers := make(map[int64]int64, len(items))
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		txn := &models.Transaction{}
		if err := s.ledger.CreateTransaction(ctx, txn); err != nil {
			return &StorageError{Op: "create transaction", Err: err}
		}

		for _, it := range items {
			product, err := s.inventory.GetProductForUpdate(ctx, it.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return &NotFoundError{ProductID: it.ProductID}
			}
			if err != nil {
				return &StorageError{Op: "load product", Err: err}
			}

			if product.Quantity < it.Quantity {
				util.StockConflictsTotal.Inc()
				return &InsufficientStockError{
					ProductName: product.Name,
					Requested:   it.Quantity,
					Available:   product.Quantity,
				}
			}

			if err := s.inventory.SetProductQuantity(ctx, product.ID, product.Quantity-it.Quantity); err != nil {
				return &StorageError{Op: "decrement stock", Err: err}
			}

			item := &models.TransactionItem{
				TransactionID:      txn.ID,
				ProductID:          product.ID,
				Quantity:           it.Quantity,
				PriceAtTransaction: product.Price,
				ProductName:        product.Name,
				ProductImageRef:    product.ImageRef,
			}
			if err := s.ledger.CreateTransactionItem(ctx, item); err != nil {
				return &StorageError{Op: "create transaction item", Err: err}
			}

			sellers[product.ID] = product.UserID
			txn.Items = append(txn.Items, *item)
			txn.Total = txn.Total.Add(item.Subtotal())
		}

		created = txn
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	util.OrdersProcessedTotal.Inc()
	for _, it := range items {
		util.ItemsSoldTotal.Add(float64(it.Quantity))
	}
	s.logger.Info("Sale recorded",
		zap.Int64("transaction_id", created.ID),
		zap.Int64("buyer_id", buyerID),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.Total.String()))

	s.publishSale(ctx, buyerID, created, sellers)

	return created, nil
}

func (s *OrderService) recordFailure(err error) {
	var (
		notFound     *NotFoundError
		insufficient *InsufficientStockError
	)
	switch {
	case errors.As(err, &notFound):
		util.OrdersFailedTotal.WithLabelValues("product_not_found").Inc()
	case errors.As(err, &insufficient):
		util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
	default:
		util.OrdersFailedTotal.WithLabelValues("storage_error").Inc()
	}
}

// publishSale emits a SaleRecorded event. Publishing is best-effort:
// the transaction is already committed, so a broker failure is only
// logged.
func (s *OrderService) publishSale(ctx context.Context, buyerID int64, txn *models.Transaction, sellers map[int64]int64) {
	if s.publisher == nil {
		return
	}

	event := &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		TransactionID: txn.ID,
		BuyerID:       buyerID,
		Total:         txn.Total,
		Items:         make([]models.SaleItemData, 0, len(txn.Items)),
	}
	for _, item := range txn.Items {
		event.Items = append(event.Items, models.SaleItemData{
			ProductID: item.ProductID,
			SellerID:  sellers[item.ProductID],
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtTransaction,
		})
	}

	if err := s.publisher.PublishSaleRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleRecorded event",
			zap.Int64("transaction_id", txn.ID),
			zap.Error(err))
	}
}
