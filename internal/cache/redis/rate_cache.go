package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// rateKey holds the latest USD→ZAR rate as a hash with fields "rate" (exact
// decimal string) and "ts" (Unix nanosecond timestamp). The key expires
// after the configured TTL so a stale rate is never served.
const rateKey = "forex:usdzar"

// RateCache implements domain.RateCache using Redis.
type RateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRateCache creates a RateCache backed by the given Client. ttl bounds
// how long a fetched rate is served before forcing a refresh.
func NewRateCache(c *Client, ttl time.Duration) *RateCache {
	return &RateCache{rdb: c.Underlying(), ttl: ttl}
}

// SetRate stores the rate and its fetch timestamp.
func (rc *RateCache) SetRate(ctx context.Context, rate decimal.Decimal, ts time.Time) error {
	fields := map[string]interface{}{
		"rate": rate.String(),
		"ts":   strconv.FormatInt(ts.UnixNano(), 10),
	}
	pipe := rc.rdb.TxPipeline()
	pipe.HSet(ctx, rateKey, fields)
	if rc.ttl > 0 {
		pipe.Expire(ctx, rateKey, rc.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set rate: %w", err)
	}
	return nil
}

// GetRate retrieves the cached rate and its fetch timestamp. It returns
// domain.ErrNotFound when nothing is cached or the entry expired.
func (rc *RateCache) GetRate(ctx context.Context) (decimal.Decimal, time.Time, error) {
	vals, err := rc.rdb.HGetAll(ctx, rateKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("redis: get rate: %w", err)
	}
	if len(vals) == 0 {
		return decimal.Decimal{}, time.Time{}, domain.ErrNotFound
	}

	rateStr, ok := vals["rate"]
	if !ok {
		return decimal.Decimal{}, time.Time{}, domain.ErrNotFound
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("redis: parse rate: %w", err)
	}

	tsStr, ok := vals["ts"]
	if !ok {
		return decimal.Decimal{}, time.Time{}, domain.ErrNotFound
	}
	tsNano, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("redis: parse rate ts: %w", err)
	}

	return rate, time.Unix(0, tsNano), nil
}

// Compile-time interface check.
var _ domain.RateCache = (*RateCache)(nil)
