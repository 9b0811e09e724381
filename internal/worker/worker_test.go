package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sales-ledger/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvalidator struct {
	invalidated []int64
}

func (f *fakeInvalidator) InvalidateRevenue(_ context.Context, userID int64) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

func saleMessage(t *testing.T, sellerIDs ...int64) kafka.Message {
	t.Helper()
	event := models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		TransactionID: 7,
		BuyerID:       2,
	}
	for i, sellerID := range sellerIDs {
		event.Items = append(event.Items, models.SaleItemData{
			ProductID: int64(i + 1),
			SellerID:  sellerID,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("1.00"),
		})
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestHandleMessage_InvalidatesEachSellerOnce(t *testing.T) {
	cache := &fakeInvalidator{}
	w := &CacheWorker{cache: cache}

	err := w.handleMessage(context.Background(), saleMessage(t, 1, 7, 1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 7}, cache.invalidated)
}

func TestHandleMessage_IgnoresOtherEventTypes(t *testing.T) {
	cache := &fakeInvalidator{}
	w := &CacheWorker{cache: cache}

	payload, err := json.Marshal(models.BaseEvent{EventID: "evt-2", EventType: "SOMETHING_ELSE"})
	require.NoError(t, err)

	err = w.handleMessage(context.Background(), kafka.Message{Value: payload})
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated)
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	cache := &fakeInvalidator{}
	w := &CacheWorker{cache: cache}

	err := w.handleMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
	assert.Empty(t, cache.invalidated)
}
