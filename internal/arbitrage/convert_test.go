package arbitrage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randarb/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestZarToUSD(t *testing.T) {
	t.Run("divides by rate", func(t *testing.T) {
		got, err := ZarToUSD(d("1900"), d("19"))
		require.NoError(t, err)
		assert.True(t, got.Equal(d("100")), "got %s", got)
	})

	t.Run("rejects zero rate", func(t *testing.T) {
		_, err := ZarToUSD(d("1900"), decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := ZarToUSD(d("1900"), d("-19"))
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})
}

func TestUSDToZar(t *testing.T) {
	got, err := USDToZar(d("100"), d("18.5"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1850")), "got %s", got)

	_, err = USDToZar(d("100"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestConversionRoundTrip(t *testing.T) {
	// Dividing and re-multiplying by the same rate must reproduce the
	// original amount at realistic price scales.
	rate := d("18.2437")
	amount := d("1834520.55")

	usd, err := ZarToUSD(amount, rate)
	require.NoError(t, err)
	back, err := USDToZar(usd, rate)
	require.NoError(t, err)

	diff := back.Sub(amount).Abs()
	assert.True(t, diff.LessThan(d("0.0000001")), "round trip drift %s", diff)
}
