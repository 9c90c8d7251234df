package scheduler

import (
	"context"
	"fmt"
	"time"

	"magnetlab_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

const (
	ledgerKeyPrefix  = "magnetlab:delivered:"
	DefaultLedgerTTL = 7 * 24 * time.Hour
)

// Ledger remembers which side effects already happened.
type Ledger interface {
	Delivered(ctx context.Context, key string) (bool, error)
	MarkDelivered(ctx context.Context, key string) error
}

// DeliveryLedger is a Ledger backed by Redis keys with a TTL.
type DeliveryLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Ledger = (*DeliveryLedger)(nil)

// NewRedisClient connects to the scheduler's Redis.
func NewRedisClient(cfg config.SchedulerConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redisOptions(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func NewDeliveryLedger(rdb *redis.Client, ttl time.Duration) *DeliveryLedger {
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}
	return &DeliveryLedger{rdb: rdb, ttl: ttl}
}

func (l *DeliveryLedger) Delivered(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Exists(ctx, ledgerKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("check delivery ledger: %w", err)
	}
	return n > 0, nil
}

func (l *DeliveryLedger) MarkDelivered(ctx context.Context, key string) error {
	if err := l.rdb.SetNX(ctx, ledgerKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), l.ttl).Err(); err != nil {
		return fmt.Errorf("mark delivery: %w", err)
	}
	return nil
}
