package service

import (
	"context"

	"sales-ledger/internal/models"
	"sales-ledger/internal/store"
	"sales-ledger/internal/util"

	"go.uber.org/zap"
)

// HistoryService answers the transaction history query. Pure read.
type HistoryService struct {
	ledger store.LedgerStore
	logger *zap.Logger
}

func NewHistoryService(ledger store.LedgerStore) *HistoryService {
	return &HistoryService{
		ledger: ledger,
		logger: util.GetLogger(),
	}
}

// GetTransactionHistory returns every transaction containing at least
// one line item for a product owned by userID, newest first, each with
// its full item list and a total computed over all items.
//
// A transaction mixing several owners' products appears in each owner's
// history with the complete item list and the same total. That matches
// the joined read this replaces; whether the other owners' lines should
// be visible is still an open product question.
func (s *HistoryService) GetTransactionHistory(ctx context.Context, userID int64) ([]models.Transaction, error) {
	ctx, span := util.StartSpan(ctx, "HistoryService.GetTransactionHistory")
	defer span.End()

	transactions, err := s.ledger.GetTransactionsByOwner(ctx, userID)
	if err != nil {
		return nil, &StorageError{Op: "transaction history query", Err: err}
	}

	for i := range transactions {
		items, err := s.ledger.GetTransactionItems(ctx, transactions[i].ID)
		if err != nil {
			return nil, &StorageError{Op: "load transaction items", Err: err}
		}
		transactions[i].Items = items
		for _, item := range items {
			transactions[i].Total = transactions[i].Total.Add(item.Subtotal())
		}
	}

	s.logger.Debug("Transaction history read",
		zap.Int64("user_id", userID),
		zap.Int("transactions", len(transactions)))

	return transactions, nil
}
