package broker

import (
	"context"
	"fmt"

	"sales-ledger/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSaleRecorded publishes a SaleRecorded event, keyed by
// transaction so per-transaction ordering is preserved.
func (ep *EventPublisher) PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error {
	key := fmt.Sprintf("txn-%d", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}
