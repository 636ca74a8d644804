package arbitrage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randarb/internal/domain"
)

func TestSimulate(t *testing.T) {
	t.Run("profitable round trip", func(t *testing.T) {
		// 190 000 ZAR at rate 19 is 10 000 USD, buying 0.1 BTC at 100 000.
		// Selling at 1 957 000 ZAR/BTC returns 195 700 ZAR: 3% profit.
		res, err := Simulate(d("190000"), d("100000"), d("1957000"), d("19"))
		require.NoError(t, err)

		assert.True(t, res.InvestmentUSD.Equal(d("10000")), "usd %s", res.InvestmentUSD)
		assert.True(t, res.AssetAmount.Equal(d("0.1")), "btc %s", res.AssetAmount)
		assert.True(t, res.ProfitZAR.Equal(d("5700")), "profit %s", res.ProfitZAR)
		assert.True(t, res.ProfitPercent.Equal(d("3")), "pct %s", res.ProfitPercent)
	})

	t.Run("losing round trip", func(t *testing.T) {
		res, err := Simulate(d("190000"), d("100000"), d("1881000"), d("19"))
		require.NoError(t, err)
		assert.True(t, res.ProfitZAR.Sign() < 0)
		assert.True(t, res.ProfitPercent.Sign() < 0)
	})

	t.Run("rejects non-positive investment", func(t *testing.T) {
		_, err := Simulate(decimal.Zero, d("100000"), d("1900000"), d("19"))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = Simulate(d("-5"), d("100000"), d("1900000"), d("19"))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects zero buy price", func(t *testing.T) {
		_, err := Simulate(d("190000"), decimal.Zero, d("1900000"), d("19"))
		assert.ErrorIs(t, err, domain.ErrZeroPrice)
	})

	t.Run("rejects invalid rate", func(t *testing.T) {
		_, err := Simulate(d("190000"), d("100000"), d("1900000"), d("-1"))
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})
}
