package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestArbitrageParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := ArbitrageConfig{}.Params()
		require.NoError(t, err)
		assert.True(t, p.ProfitThresholdPercent.Equal(decimalFromString(t, "1")))
		assert.True(t, p.LiquidityFraction.Equal(decimalFromString(t, "0.1")))
	})

	t.Run("overrides", func(t *testing.T) {
		p, err := ArbitrageConfig{
			ProfitThresholdPercent: "2.5",
			LiquidityFraction:      "0.05",
		}.Params()
		require.NoError(t, err)
		assert.True(t, p.ProfitThresholdPercent.Equal(decimalFromString(t, "2.5")))
		assert.True(t, p.LiquidityFraction.Equal(decimalFromString(t, "0.05")))
	})

	t.Run("malformed threshold", func(t *testing.T) {
		_, err := ArbitrageConfig{ProfitThresholdPercent: "one"}.Params()
		assert.Error(t, err)
	})
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.Bybit.BaseURL = ""
	cfg.Redis.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "bybit: base_url")
	assert.Contains(t, err.Error(), "redis: addr")
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
mode = "monitor"

[arbitrage]
profit_threshold_percent = "1.5"

[valr]
pair = "ETHZAR"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("RANDARB_SERVER_PORT", "9100")
	t.Setenv("RANDARB_SERVER_API_KEY", "sekrit")
	t.Setenv("RANDARB_SERVER_RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("RANDARB_ARBITRAGE_LIQUIDITY_FRACTION", "0.2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "monitor", cfg.Mode)
	assert.Equal(t, "ETHZAR", cfg.Valr.Pair)
	assert.Equal(t, "https://api.bybit.com", cfg.Bybit.BaseURL, "defaults survive partial file")
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "sekrit", cfg.Server.APIKey)
	assert.Equal(t, 30, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "0.2", cfg.Arbitrage.LiquidityFraction)
	assert.Equal(t, "1.5", cfg.Arbitrage.ProfitThresholdPercent)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsNegativeRateLimit(t *testing.T) {
	cfg := Defaults()
	cfg.Server.RateLimitPerMinute = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_per_minute")
}
