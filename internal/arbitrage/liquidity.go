package arbitrage

import (
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// TradableVolume derives the conservative volume cap for one evaluation: the
// configured fraction of the smaller venue's 24h volume. Trading more than a
// sliver of the thinner market would move it.
//
// It returns domain.ErrInvalidVolume when either volume is negative. Callers
// that could not obtain a volume pass zero, which yields a zero cap and
// skips matching downstream.
func TradableVolume(bybitVolume, valrVolume, fraction decimal.Decimal) (decimal.Decimal, error) {
	if bybitVolume.Sign() < 0 || valrVolume.Sign() < 0 {
		return decimal.Decimal{}, domain.ErrInvalidVolume
	}

	smaller := bybitVolume
	if valrVolume.LessThan(smaller) {
		smaller = valrVolume
	}
	return smaller.Mul(fraction), nil
}
