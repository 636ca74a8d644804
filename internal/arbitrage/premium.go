package arbitrage

import (
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// ComputePremium compares the ZAR venue's reference price (normalised to USD)
// against the USD venue's reference price and decides trade eligibility
// against the profit threshold.
//
// It returns domain.ErrInvalidRate when rate is not positive and
// domain.ErrZeroPrice when bybitPriceUSD is zero.
func ComputePremium(bybitPriceUSD, valrPriceZAR, rate, thresholdPercent decimal.Decimal) (domain.PremiumResult, error) {
	valrPriceUSD, err := ZarToUSD(valrPriceZAR, rate)
	if err != nil {
		return domain.PremiumResult{}, err
	}
	if bybitPriceUSD.IsZero() {
		return domain.PremiumResult{}, domain.ErrZeroPrice
	}

	premium := valrPriceUSD.Sub(bybitPriceUSD)
	pct := premium.DivRound(bybitPriceUSD, divisionPrecision).Mul(hundred)

	return domain.PremiumResult{
		PremiumUSD:     premium,
		PremiumPercent: pct,
		TradeEligible:  pct.GreaterThanOrEqual(thresholdPercent),
	}, nil
}
