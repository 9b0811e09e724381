package worker

import (
	"context"
	"encoding/json"
	"log"

	"sales-ledger/internal/broker"
	"sales-ledger/internal/models"

	"github.com/segmentio/kafka-go"
)

// RevenueInvalidator drops a user's cached revenue aggregate.
type RevenueInvalidator interface {
	InvalidateRevenue(ctx context.Context, userID int64) error
}

// CacheWorker consumes SaleRecorded events and invalidates the cached
// monthly revenue of every seller whose product was sold, so revenue
// queries never serve aggregates from before the sale longer than one
// consumer lag.
type CacheWorker struct {
	consumer *broker.Consumer
	cache    RevenueInvalidator
}

// NewCacheWorker creates a new cache invalidation worker
func NewCacheWorker(consumer *broker.Consumer, cache RevenueInvalidator) *CacheWorker {
	return &CacheWorker{
		consumer: consumer,
		cache:    cache,
	}
}

// Start starts the worker
func (w *CacheWorker) Start(ctx context.Context) error {
	log.Println("Starting revenue cache worker...")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *CacheWorker) Stop() error {
	log.Println("Stopping revenue cache worker...")
	return w.consumer.Close()
}

func (w *CacheWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		log.Printf("Failed to unmarshal event: %v", err)
		return err
	}

	if baseEvent.EventType != models.EventTypeSaleRecorded {
		return nil
	}

	var event models.SaleRecordedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Failed to unmarshal SaleRecorded event: %v", err)
		return err
	}

	sellers := make(map[int64]bool)
	for _, item := range event.Items {
		if item.SellerID == 0 || sellers[item.SellerID] {
			continue
		}
		sellers[item.SellerID] = true
		if err := w.cache.InvalidateRevenue(ctx, item.SellerID); err != nil {
			log.Printf("Failed to invalidate revenue cache for user %d: %v", item.SellerID, err)
		}
	}

	return nil
}
