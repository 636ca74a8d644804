package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"randarb/internal/domain"
)

// reportKey holds the latest market report as a JSON blob. Decimal fields
// marshal as strings, so caching and re-reading a report never loses
// precision.
const reportKey = "market:report"

// ReportCache implements domain.ReportCache using Redis.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewReportCache creates a ReportCache backed by the given Client. ttl is
// how long one evaluation is served to concurrent dashboard requests before
// the venues are queried again.
func NewReportCache(c *Client, ttl time.Duration) *ReportCache {
	return &ReportCache{rdb: c.Underlying(), ttl: ttl}
}

// SetReport stores the report.
func (rc *ReportCache) SetReport(ctx context.Context, report domain.MarketReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis: marshal report: %w", err)
	}
	if err := rc.rdb.Set(ctx, reportKey, data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set report: %w", err)
	}
	return nil
}

// GetReport retrieves the cached report, or domain.ErrNotFound on a miss.
func (rc *ReportCache) GetReport(ctx context.Context) (domain.MarketReport, error) {
	data, err := rc.rdb.Get(ctx, reportKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.MarketReport{}, domain.ErrNotFound
		}
		return domain.MarketReport{}, fmt.Errorf("redis: get report: %w", err)
	}

	var report domain.MarketReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.MarketReport{}, fmt.Errorf("redis: unmarshal report: %w", err)
	}
	return report, nil
}

// Compile-time interface check.
var _ domain.ReportCache = (*ReportCache)(nil)
