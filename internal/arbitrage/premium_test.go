package arbitrage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randarb/internal/domain"
)

func TestComputePremium(t *testing.T) {
	threshold := decimal.NewFromInt(1)

	t.Run("positive premium above threshold", func(t *testing.T) {
		// VALR at 1 938 000 ZAR with rate 19 is 102 000 USD vs Bybit at
		// 100 000 USD: a 2% premium.
		res, err := ComputePremium(d("100000"), d("1938000"), d("19"), threshold)
		require.NoError(t, err)
		assert.True(t, res.PremiumUSD.Equal(d("2000")), "premium %s", res.PremiumUSD)
		assert.True(t, res.PremiumPercent.Equal(d("2")), "pct %s", res.PremiumPercent)
		assert.True(t, res.TradeEligible)
	})

	t.Run("premium below threshold", func(t *testing.T) {
		res, err := ComputePremium(d("100000"), d("1900950"), d("19"), threshold)
		require.NoError(t, err)
		assert.False(t, res.TradeEligible)
		assert.True(t, res.PremiumPercent.LessThan(threshold))
	})

	t.Run("negative premium", func(t *testing.T) {
		res, err := ComputePremium(d("100000"), d("1862000"), d("19"), threshold)
		require.NoError(t, err)
		assert.True(t, res.PremiumUSD.Sign() < 0)
		assert.False(t, res.TradeEligible)
	})

	t.Run("zero bybit price", func(t *testing.T) {
		_, err := ComputePremium(decimal.Zero, d("1900000"), d("19"), threshold)
		assert.ErrorIs(t, err, domain.ErrZeroPrice)
	})

	t.Run("invalid rate", func(t *testing.T) {
		_, err := ComputePremium(d("100000"), d("1900000"), decimal.Zero, threshold)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})
}

func TestComputePremiumMonotonic(t *testing.T) {
	// Raising the ZAR price while holding the USD price and rate fixed must
	// never decrease the premium percentage.
	bybit := d("100000")
	rate := d("18.5")
	threshold := decimal.NewFromInt(1)

	prev := decimal.New(-1, 12) // sentinel below any real percentage
	valr := d("1700000")
	step := d("25000")
	for i := 0; i < 40; i++ {
		res, err := ComputePremium(bybit, valr, rate, threshold)
		require.NoError(t, err)
		assert.True(t, res.PremiumPercent.GreaterThanOrEqual(prev),
			"premium pct decreased at valr price %s: %s < %s", valr, res.PremiumPercent, prev)
		prev = res.PremiumPercent
		valr = valr.Add(step)
	}
}
