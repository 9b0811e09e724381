package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sales-ledger/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches computed revenue aggregates. Inventory itself is never
// cached here: stock checks go through the database row locks.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func revenueKey(userID int64) string {
	return fmt.Sprintf("revenue:%d", userID)
}

// GetMonthlyRevenue returns the cached revenue entries for a user, or
// ok=false on a miss.
func (c *Client) GetMonthlyRevenue(ctx context.Context, userID int64) ([]models.MonthlyRevenue, bool, error) {
	payload, err := c.rdb.Get(ctx, revenueKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []models.MonthlyRevenue
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false, fmt.Errorf("corrupt revenue cache entry: %w", err)
	}
	return entries, true, nil
}

// SetMonthlyRevenue caches the revenue entries for a user with the
// configured TTL.
func (c *Client) SetMonthlyRevenue(ctx context.Context, userID int64, entries []models.MonthlyRevenue) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal revenue entries: %w", err)
	}
	return c.rdb.Set(ctx, revenueKey(userID), payload, c.ttl).Err()
}

// InvalidateRevenue drops a user's cached revenue, forcing the next
// query back to the ledger.
func (c *Client) InvalidateRevenue(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, revenueKey(userID)).Err()
}
