// Package arbitrage implements the cross-exchange arbitrage engine: currency
// normalisation between USD and ZAR, premium calculation against a profit
// threshold, conservative liquidity sizing, the level-by-level order book
// match, and a depth-agnostic trade simulation. Every function is pure and
// operates on immutable decimal inputs; callers may run evaluations
// concurrently without coordination.
package arbitrage

import "github.com/shopspring/decimal"

// Params carries the tunable thresholds of the engine. Zero values are not
// meaningful; construct with DefaultParams and override fields from config.
type Params struct {
	// ProfitThresholdPercent is the minimum premium or per-level spread, in
	// percent, for a trade to qualify.
	ProfitThresholdPercent decimal.Decimal
	// LiquidityFraction caps sizing to this fraction of the smaller venue's
	// 24h volume.
	LiquidityFraction decimal.Decimal
}

// DefaultParams returns the standard thresholds: 1% minimum profit and a 10%
// liquidity cap.
func DefaultParams() Params {
	return Params{
		ProfitThresholdPercent: decimal.NewFromInt(1),
		LiquidityFraction:      decimal.RequireFromString("0.1"),
	}
}

var hundred = decimal.NewFromInt(100)
