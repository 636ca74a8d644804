package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies RANDARB_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known RANDARB_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Arbitrage ──
	setStr(&cfg.Arbitrage.ProfitThresholdPercent, "RANDARB_ARBITRAGE_PROFIT_THRESHOLD_PERCENT")
	setStr(&cfg.Arbitrage.LiquidityFraction, "RANDARB_ARBITRAGE_LIQUIDITY_FRACTION")

	// ── Venues ──
	setStr(&cfg.Bybit.BaseURL, "RANDARB_BYBIT_BASE_URL")
	setStr(&cfg.Bybit.Symbol, "RANDARB_BYBIT_SYMBOL")
	setInt(&cfg.Bybit.OrderbookLimit, "RANDARB_BYBIT_ORDERBOOK_LIMIT")
	setStr(&cfg.Valr.BaseURL, "RANDARB_VALR_BASE_URL")
	setStr(&cfg.Valr.Pair, "RANDARB_VALR_PAIR")
	setStr(&cfg.Forex.BaseURL, "RANDARB_FOREX_BASE_URL")
	setDuration(&cfg.Forex.RateTTL, "RANDARB_FOREX_RATE_TTL")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "RANDARB_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "RANDARB_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "RANDARB_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "RANDARB_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "RANDARB_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "RANDARB_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "RANDARB_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "RANDARB_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "RANDARB_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "RANDARB_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "RANDARB_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "RANDARB_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "RANDARB_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "RANDARB_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "RANDARB_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "RANDARB_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.ReportTTL, "RANDARB_REDIS_REPORT_TTL")

	// ── S3 / archive ──
	setStr(&cfg.S3.Endpoint, "RANDARB_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "RANDARB_S3_REGION")
	setStr(&cfg.S3.Bucket, "RANDARB_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "RANDARB_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "RANDARB_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "RANDARB_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "RANDARB_S3_FORCE_PATH_STYLE")
	setBool(&cfg.Archive.Enabled, "RANDARB_ARCHIVE_ENABLED")
	setInt(&cfg.Archive.RetentionDays, "RANDARB_ARCHIVE_RETENTION_DAYS")
	setDuration(&cfg.Archive.Interval, "RANDARB_ARCHIVE_INTERVAL")

	// ── Monitor ──
	setDuration(&cfg.Monitor.Interval, "RANDARB_MONITOR_INTERVAL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "RANDARB_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "RANDARB_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "RANDARB_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "RANDARB_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMinute, "RANDARB_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "RANDARB_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "RANDARB_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "RANDARB_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "RANDARB_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "RANDARB_MODE")
	setStr(&cfg.LogLevel, "RANDARB_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
