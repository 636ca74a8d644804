package arbitrage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randarb/internal/domain"
)

func TestTradableVolume(t *testing.T) {
	fraction := d("0.1")

	t.Run("ten percent of the smaller volume", func(t *testing.T) {
		got, err := TradableVolume(d("120"), d("45.5"), fraction)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("4.55")), "got %s", got)
	})

	t.Run("symmetric in its arguments", func(t *testing.T) {
		a, err := TradableVolume(d("33.7"), d("812"), fraction)
		require.NoError(t, err)
		b, err := TradableVolume(d("812"), d("33.7"), fraction)
		require.NoError(t, err)
		assert.True(t, a.Equal(b))
	})

	t.Run("missing volume yields zero cap", func(t *testing.T) {
		got, err := TradableVolume(decimal.Zero, d("45.5"), fraction)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("negative volume rejected", func(t *testing.T) {
		_, err := TradableVolume(d("-1"), d("45.5"), fraction)
		assert.ErrorIs(t, err, domain.ErrInvalidVolume)

		_, err = TradableVolume(d("45.5"), d("-0.001"), fraction)
		assert.ErrorIs(t, err, domain.ErrInvalidVolume)
	})

	t.Run("never exceeds fraction of smaller volume", func(t *testing.T) {
		cases := [][2]string{
			{"0.001", "9000000"},
			{"57", "57"},
			{"123456.789", "0.42"},
		}
		for _, c := range cases {
			got, err := TradableVolume(d(c[0]), d(c[1]), fraction)
			require.NoError(t, err)
			smaller := decimal.Min(d(c[0]), d(c[1]))
			assert.True(t, got.LessThanOrEqual(smaller.Mul(fraction)),
				"cap %s exceeds 10%% of min(%s, %s)", got, c[0], c[1])
		}
	})
}
