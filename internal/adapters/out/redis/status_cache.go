// Package redis caches order status views in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/queries"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	keyOrderStatus = "order_status:%s"

	// DefaultTTL applies when a non-positive TTL is configured.
	DefaultTTL = 5 * time.Minute
)

var _ queries.StatusCache = (*StatusCache)(nil)

// NewClient connects to addr and verifies the connection with PING.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return client, nil
}

type cachedStatus struct {
	OrderID             string          `json:"order_id"`
	UserID              int64           `json:"user_id"`
	ItemIDs             []int64         `json:"item_ids"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Status              string          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	ProcessingStartedAt *time.Time      `json:"processing_started_at"`
	CompletedAt         *time.Time      `json:"completed_at"`
	PendingDuration     *time.Duration  `json:"pending_duration"`
	ProcessingDuration  *time.Duration  `json:"processing_duration"`
	TotalDuration       *time.Duration  `json:"total_duration"`
}

// StatusCache stores status views as JSON under "order_status:<order_id>".
// Redis failures are logged and treated as cache misses.
type StatusCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewStatusCache(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *StatusCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &StatusCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "status_cache"),
	}
}

func (c *StatusCache) Get(ctx context.Context, orderID string) (queries.GetOrderStatusQueryResponse, bool) {
	data, err := c.client.Get(ctx, fmt.Sprintf(keyOrderStatus, orderID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WarnContext(ctx, "Status cache read failed", "order_id", orderID, "error", err)
		}
		return queries.GetOrderStatusQueryResponse{}, false
	}

	var cached cachedStatus
	if err = json.Unmarshal(data, &cached); err != nil {
		c.logger.WarnContext(ctx, "Status cache entry is corrupt", "order_id", orderID, "error", err)
		return queries.GetOrderStatusQueryResponse{}, false
	}

	return queries.GetOrderStatusQueryResponse(cached), true
}

func (c *StatusCache) Set(ctx context.Context, resp queries.GetOrderStatusQueryResponse) {
	data, err := json.Marshal(cachedStatus(resp))
	if err != nil {
		c.logger.WarnContext(ctx, "Status cache encode failed", "order_id", resp.OrderID, "error", err)
		return
	}

	if err = c.client.Set(ctx, fmt.Sprintf(keyOrderStatus, resp.OrderID), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Status cache write failed", "order_id", resp.OrderID, "error", err)
	}
}
