package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// The API serializes every monetary value through decimal.Decimal, which
// marshals as a quoted string, so amounts survive the JSON round trip
// exactly.

// PremiumDTO mirrors domain.PremiumResult on the wire.
type PremiumDTO struct {
	PremiumUSD     decimal.Decimal `json:"premium_usd"`
	PremiumPercent decimal.Decimal `json:"premium_percent"`
	TradeEligible  bool            `json:"trade_eligible"`
}

// TradeLevelDTO is one depth level of a match plan.
type TradeLevelDTO struct {
	SellPriceUSD  decimal.Decimal `json:"sell_price_usd"`
	BuyPriceUSD   decimal.Decimal `json:"buy_price_usd"`
	BuyPriceZAR   decimal.Decimal `json:"buy_price_zar"`
	Volume        decimal.Decimal `json:"volume"`
	SpreadPercent decimal.Decimal `json:"spread_percent"`
}

// MatchResultDTO mirrors domain.MatchResult on the wire.
type MatchResultDTO struct {
	Executable  bool            `json:"executable"`
	TotalVolume decimal.Decimal `json:"total_volume"`
	Levels      []TradeLevelDTO `json:"levels"`
}

// MarketReportDTO is the response body of GET /api/market.
type MarketReportDTO struct {
	Pair           string          `json:"pair"`
	Rate           decimal.Decimal `json:"rate"`
	BybitPriceUSD  decimal.Decimal `json:"bybit_price_usd"`
	ValrPriceZAR   decimal.Decimal `json:"valr_price_zar"`
	ValrPriceUSD   decimal.Decimal `json:"valr_price_usd"`
	Premium        PremiumDTO      `json:"premium"`
	TradableVolume decimal.Decimal `json:"tradable_volume"`
	Match          *MatchResultDTO `json:"match,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// SimulationDTO is the response body of GET /api/simulate.
type SimulationDTO struct {
	TradeID       string          `json:"trade_id"`
	InvestmentZAR decimal.Decimal `json:"investment_zar"`
	InvestmentUSD decimal.Decimal `json:"investment_usd"`
	AssetAmount   decimal.Decimal `json:"asset_amount"`
	BuyPriceUSD   decimal.Decimal `json:"buy_price_usd"`
	SellPriceZAR  decimal.Decimal `json:"sell_price_zar"`
	ProfitZAR     decimal.Decimal `json:"profit_zar"`
	ProfitPercent decimal.Decimal `json:"profit_percent"`
	Rate          decimal.Decimal `json:"rate"`
	Levels        []TradeLevelDTO `json:"levels,omitempty"`
}

// TradeDTO is one persisted simulated trade on the wire.
type TradeDTO struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	InvestmentZAR  decimal.Decimal `json:"investment_zar"`
	AssetVolume    decimal.Decimal `json:"asset_volume"`
	BybitPriceUSD  decimal.Decimal `json:"bybit_price_usd"`
	ValrPriceZAR   decimal.Decimal `json:"valr_price_zar"`
	Rate           decimal.Decimal `json:"rate"`
	PremiumPercent decimal.Decimal `json:"premium_percent"`
	ProfitZAR      decimal.Decimal `json:"profit_zar"`
	ProfitPercent  decimal.Decimal `json:"profit_percent"`
	Status         string          `json:"status"`
	Levels         []TradeLevelDTO `json:"levels,omitempty"`
}

func toPremiumDTO(p domain.PremiumResult) PremiumDTO {
	return PremiumDTO{
		PremiumUSD:     p.PremiumUSD,
		PremiumPercent: p.PremiumPercent,
		TradeEligible:  p.TradeEligible,
	}
}

func toMatchResultDTO(m *domain.MatchResult) *MatchResultDTO {
	if m == nil {
		return nil
	}
	levels := make([]TradeLevelDTO, 0, len(m.Levels))
	for _, lvl := range m.Levels {
		levels = append(levels, TradeLevelDTO{
			SellPriceUSD:  lvl.SellPriceUSD,
			BuyPriceUSD:   lvl.BuyPriceUSD,
			BuyPriceZAR:   lvl.BuyPriceZAR,
			Volume:        lvl.Volume,
			SpreadPercent: lvl.SpreadPercent,
		})
	}
	return &MatchResultDTO{
		Executable:  m.Executable,
		TotalVolume: m.TotalVolume,
		Levels:      levels,
	}
}

// ToMarketReportDTO converts a market report to its wire form. Exported for
// the WebSocket hub, which pushes the same shape the REST endpoint serves.
func ToMarketReportDTO(report domain.MarketReport) MarketReportDTO {
	return MarketReportDTO{
		Pair:           report.Pair,
		Rate:           report.Rate,
		BybitPriceUSD:  report.BybitPriceUSD,
		ValrPriceZAR:   report.ValrPriceZAR,
		ValrPriceUSD:   report.ValrPriceUSD,
		Premium:        toPremiumDTO(report.Premium),
		TradableVolume: report.TradableVolume,
		Match:          toMatchResultDTO(report.Match),
		GeneratedAt:    report.GeneratedAt,
	}
}

func toSimulationDTO(trade domain.SimulatedTrade, result domain.SimulationResult) SimulationDTO {
	dto := SimulationDTO{
		TradeID:       trade.ID,
		InvestmentZAR: result.InvestmentZAR,
		InvestmentUSD: result.InvestmentUSD,
		AssetAmount:   result.AssetAmount,
		BuyPriceUSD:   result.BuyPriceUSD,
		SellPriceZAR:  result.SellPriceZAR,
		ProfitZAR:     result.ProfitZAR,
		ProfitPercent: result.ProfitPercent,
		Rate:          result.Rate,
	}
	for _, lvl := range trade.Levels {
		dto.Levels = append(dto.Levels, toTradeLevelDTO(lvl))
	}
	return dto
}

func toTradeLevelDTO(lvl domain.SimulatedTradeLevel) TradeLevelDTO {
	return TradeLevelDTO{
		SellPriceUSD:  lvl.SellPriceUSD,
		BuyPriceZAR:   lvl.BuyPriceZAR,
		Volume:        lvl.Volume,
		SpreadPercent: lvl.SpreadPercent,
	}
}

func toTradeDTO(trade domain.SimulatedTrade) TradeDTO {
	dto := TradeDTO{
		ID:             trade.ID,
		CreatedAt:      trade.CreatedAt,
		InvestmentZAR:  trade.InvestmentZAR,
		AssetVolume:    trade.AssetVolume,
		BybitPriceUSD:  trade.BybitPriceUSD,
		ValrPriceZAR:   trade.ValrPriceZAR,
		Rate:           trade.Rate,
		PremiumPercent: trade.PremiumPercent,
		ProfitZAR:      trade.ProfitZAR,
		ProfitPercent:  trade.ProfitPercent,
		Status:         string(trade.Status),
	}
	for _, lvl := range trade.Levels {
		dto.Levels = append(dto.Levels, toTradeLevelDTO(lvl))
	}
	return dto
}
