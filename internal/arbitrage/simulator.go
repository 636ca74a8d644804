package arbitrage

import (
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// Simulate projects a single round-trip trade: convert investmentZAR to USD,
// buy the asset at the USD venue's reference price, sell it at the ZAR
// venue's reference price. The whole investment is assumed to fill at the
// reference prices with no slippage and no depth. For a depth-aware plan use
// MatchBooks; the two are deliberately separate operations.
//
// It returns domain.ErrInvalidAmount when investmentZAR is not positive,
// domain.ErrInvalidRate when rate is not positive, and domain.ErrZeroPrice
// when bybitPriceUSD is zero.
func Simulate(investmentZAR, bybitPriceUSD, valrPriceZAR, rate decimal.Decimal) (domain.SimulationResult, error) {
	if investmentZAR.Sign() <= 0 {
		return domain.SimulationResult{}, domain.ErrInvalidAmount
	}
	investmentUSD, err := ZarToUSD(investmentZAR, rate)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	if bybitPriceUSD.IsZero() {
		return domain.SimulationResult{}, domain.ErrZeroPrice
	}

	assetAmount := investmentUSD.DivRound(bybitPriceUSD, divisionPrecision)
	proceedsZAR := assetAmount.Mul(valrPriceZAR)
	profitZAR := proceedsZAR.Sub(investmentZAR)
	profitPct := profitZAR.DivRound(investmentZAR, divisionPrecision).Mul(hundred)

	return domain.SimulationResult{
		InvestmentZAR: investmentZAR,
		InvestmentUSD: investmentUSD,
		AssetAmount:   assetAmount,
		BuyPriceUSD:   bybitPriceUSD,
		SellPriceZAR:  valrPriceZAR,
		ProfitZAR:     profitZAR,
		ProfitPercent: profitPct,
		Rate:          rate,
	}, nil
}
