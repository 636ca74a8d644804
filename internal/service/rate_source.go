// Package service composes the platform clients, cache, store, and core
// arbitrage logic into the operations the HTTP API and monitor loop expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// ForexClient fetches the current USD to ZAR exchange rate.
type ForexClient interface {
	GetUSDZARRate(ctx context.Context) (decimal.Decimal, error)
}

// RateSource serves the USD/ZAR rate from cache, falling back to the forex
// API and back-filling the cache on a miss. Cache write failures are logged
// but never fail a lookup.
type RateSource struct {
	forex  ForexClient
	cache  domain.RateCache
	logger *slog.Logger
}

// NewRateSource creates a RateSource.
func NewRateSource(forex ForexClient, cache domain.RateCache, logger *slog.Logger) *RateSource {
	return &RateSource{
		forex:  forex,
		cache:  cache,
		logger: logger.With(slog.String("component", "rate_source")),
	}
}

// Rate returns the current USD to ZAR rate.
func (r *RateSource) Rate(ctx context.Context) (decimal.Decimal, error) {
	if r.cache != nil {
		rate, _, err := r.cache.GetRate(ctx)
		if err == nil {
			return rate, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.WarnContext(ctx, "rate cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	rate, err := r.forex.GetUSDZARRate(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rate_source: fetch rate: %w", err)
	}

	if r.cache != nil {
		if cacheErr := r.cache.SetRate(ctx, rate, time.Now().UTC()); cacheErr != nil {
			r.logger.WarnContext(ctx, "rate cache write failed",
				slog.String("error", cacheErr.Error()),
			)
		}
	}
	return rate, nil
}
