package service

import (
	"context"
	"time"

	"sales-ledger/internal/models"
	"sales-ledger/internal/store"
	"sales-ledger/internal/util"

	"go.uber.org/zap"
)

// RevenueCache caches computed monthly revenue per user. The bool
// return reports whether the entry was present.
type RevenueCache interface {
	GetMonthlyRevenue(ctx context.Context, userID int64) ([]models.MonthlyRevenue, bool, error)
	SetMonthlyRevenue(ctx context.Context, userID int64, entries []models.MonthlyRevenue) error
}

// RevenueService answers the monthly revenue query for a seller's own
// products, read-through cached.
type RevenueService struct {
	ledger store.LedgerStore
	cache  RevenueCache
	logger *zap.Logger
}

// NewRevenueService creates a new revenue service. cache may be nil.
func NewRevenueService(ledger store.LedgerStore, cache RevenueCache) *RevenueService {
	return &RevenueService{
		ledger: ledger,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// GetMonthlyRevenue returns per-month revenue over line items whose
// product is owned by userID, ascending by month. A user with no sales
// gets an empty slice, not an error.
func (s *RevenueService) GetMonthlyRevenue(ctx context.Context, userID int64) ([]models.MonthlyRevenue, error) {
	ctx, span := util.StartSpan(ctx, "RevenueService.GetMonthlyRevenue")
	defer span.End()

	start := time.Now()
	defer func() {
		util.RevenueQueryLatency.Observe(time.Since(start).Seconds())
	}()

	if s.cache != nil {
		entries, ok, err := s.cache.GetMonthlyRevenue(ctx, userID)
		if err != nil {
			s.logger.Warn("Revenue cache read failed",
				zap.Int64("user_id", userID),
				zap.Error(err))
		} else if ok {
			util.RevenueCacheHits.Inc()
			return entries, nil
		}
		util.RevenueCacheMisses.Inc()
	}

	entries, err := s.ledger.MonthlyRevenueByOwner(ctx, userID)
	if err != nil {
		return nil, &StorageError{Op: "monthly revenue query", Err: err}
	}

	if s.cache != nil {
		if err := s.cache.SetMonthlyRevenue(ctx, userID, entries); err != nil {
			s.logger.Warn("Revenue cache write failed",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	}

	return entries, nil
}
