package arbitrage

import (
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// conversion precision in decimal digits. High enough that dividing and
// re-multiplying by the same rate reproduces the input at any realistic
// price scale.
const divisionPrecision = 16

// ZarToUSD converts a ZAR amount to USD using the given ZAR-per-USD rate.
// It returns domain.ErrInvalidRate when rate is zero or negative.
func ZarToUSD(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, domain.ErrInvalidRate
	}
	return amount.DivRound(rate, divisionPrecision), nil
}

// USDToZar converts a USD amount to ZAR using the given ZAR-per-USD rate.
// It returns domain.ErrInvalidRate when rate is zero or negative.
func USDToZar(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, domain.ErrInvalidRate
	}
	return amount.Mul(rate), nil
}
