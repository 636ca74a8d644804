package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateCache stores the most recently fetched USD→ZAR exchange rate so that
// one evaluation does not hit the forex API more than once per TTL window.
type RateCache interface {
	SetRate(ctx context.Context, rate decimal.Decimal, ts time.Time) error
	// GetRate returns ErrNotFound when no rate is cached or the cached rate
	// has expired.
	GetRate(ctx context.Context) (decimal.Decimal, time.Time, error)
}

// ReportCache stores the latest market report so concurrent dashboard
// requests within the cache window share one venue round-trip.
type ReportCache interface {
	SetReport(ctx context.Context, report MarketReport) error
	// GetReport returns ErrNotFound on a cache miss.
	GetReport(ctx context.Context) (MarketReport, error)
}

// RateLimiter throttles requests per key. Allow reports whether one more
// request for the key fits inside the window, counting it if so.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
