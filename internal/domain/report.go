package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PremiumResult is the outcome of comparing the two venues' reference prices
// after normalising both to USD.
type PremiumResult struct {
	// PremiumUSD is the absolute amount by which the ZAR venue's price
	// exceeds the USD venue's price, expressed in USD.
	PremiumUSD decimal.Decimal
	// PremiumPercent is PremiumUSD relative to the USD venue's price, in
	// percent.
	PremiumPercent decimal.Decimal
	// TradeEligible is true when PremiumPercent meets the configured profit
	// threshold.
	TradeEligible bool
}

// TradeLevel is one executable slice of an arbitrage plan: buy BuyVolume at
// the ZAR venue's ask, sell the same volume into the USD venue's bid. Both
// prices are carried in both currencies so downstream consumers can audit
// each level without re-deriving the conversion.
type TradeLevel struct {
	SellPriceUSD  decimal.Decimal // USD venue bid
	BuyPriceUSD   decimal.Decimal // ZAR venue ask, normalised to USD
	BuyPriceZAR   decimal.Decimal // ZAR venue ask as quoted
	Volume        decimal.Decimal
	SpreadPercent decimal.Decimal
}

// MatchResult is the aggregate outcome of walking both order books. A
// non-executable result with no levels is the legitimate "cannot trade now"
// outcome, not an error.
type MatchResult struct {
	Executable  bool
	TotalVolume decimal.Decimal
	Levels      []TradeLevel
}

// SimulationResult projects the profit of a single round-trip trade at the
// current reference prices, ignoring order-book depth.
type SimulationResult struct {
	InvestmentZAR decimal.Decimal
	InvestmentUSD decimal.Decimal
	AssetAmount   decimal.Decimal
	BuyPriceUSD   decimal.Decimal
	SellPriceZAR  decimal.Decimal
	ProfitZAR     decimal.Decimal
	ProfitPercent decimal.Decimal
	Rate          decimal.Decimal
}

// MarketReport is the full output of one market evaluation: raw inputs,
// premium decision, conservative sizing, and (when the premium qualifies)
// the depth-aware match plan.
type MarketReport struct {
	Pair           string
	Rate           decimal.Decimal
	BybitPriceUSD  decimal.Decimal
	ValrPriceZAR   decimal.Decimal
	ValrPriceUSD   decimal.Decimal
	Premium        PremiumResult
	TradableVolume decimal.Decimal
	Match          *MatchResult
	GeneratedAt    time.Time
}
