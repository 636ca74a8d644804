package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeStatus is the lifecycle state of a simulated trade.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusFailed    TradeStatus = "failed"
	TradeStatusCancelled TradeStatus = "cancelled"
)

// SimulatedTrade is a persisted record of one trade simulation: the market
// conditions it was evaluated against and the projected outcome.
type SimulatedTrade struct {
	ID             string // UUID
	CreatedAt      time.Time
	InvestmentZAR  decimal.Decimal
	AssetVolume    decimal.Decimal
	BybitPriceUSD  decimal.Decimal
	ValrPriceZAR   decimal.Decimal
	Rate           decimal.Decimal
	PremiumPercent decimal.Decimal
	ProfitZAR      decimal.Decimal
	ProfitPercent  decimal.Decimal
	Status         TradeStatus
	Levels         []SimulatedTradeLevel
}

// SimulatedTradeLevel is one persisted depth level of a simulated trade's
// match plan.
type SimulatedTradeLevel struct {
	ID            int64
	TradeID       string
	SellPriceUSD  decimal.Decimal
	BuyPriceZAR   decimal.Decimal
	Volume        decimal.Decimal
	SpreadPercent decimal.Decimal
}

// ListOpts carries pagination and time filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}
