// Package config defines the top-level configuration for the randarb service
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"randarb/internal/arbitrage"
	"randarb/internal/notify"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by RANDARB_* environment
// variables.
type Config struct {
	Arbitrage ArbitrageConfig `toml:"arbitrage"`
	Bybit     BybitConfig     `toml:"bybit"`
	Valr      ValrConfig      `toml:"valr"`
	Forex     ForexConfig     `toml:"forex"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Archive   ArchiveConfig   `toml:"archive"`
	Monitor   MonitorConfig   `toml:"monitor"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// ArbitrageConfig holds the engine thresholds. The decimal values are carried
// as strings so the TOML file states them exactly, without a float detour.
type ArbitrageConfig struct {
	ProfitThresholdPercent string `toml:"profit_threshold_percent"`
	LiquidityFraction      string `toml:"liquidity_fraction"`
}

// Params parses the configured thresholds into engine parameters. Unset
// fields fall back to the engine defaults.
func (c ArbitrageConfig) Params() (arbitrage.Params, error) {
	p := arbitrage.DefaultParams()
	if c.ProfitThresholdPercent != "" {
		v, err := decimal.NewFromString(c.ProfitThresholdPercent)
		if err != nil {
			return arbitrage.Params{}, fmt.Errorf("config: profit_threshold_percent: %w", err)
		}
		p.ProfitThresholdPercent = v
	}
	if c.LiquidityFraction != "" {
		v, err := decimal.NewFromString(c.LiquidityFraction)
		if err != nil {
			return arbitrage.Params{}, fmt.Errorf("config: liquidity_fraction: %w", err)
		}
		p.LiquidityFraction = v
	}
	return p, nil
}

// BybitConfig holds the Bybit public API endpoint and instrument.
type BybitConfig struct {
	BaseURL        string `toml:"base_url"`
	Symbol         string `toml:"symbol"`
	OrderbookLimit int    `toml:"orderbook_limit"`
}

// ValrConfig holds the VALR public API endpoint and pair.
type ValrConfig struct {
	BaseURL string `toml:"base_url"`
	Pair    string `toml:"pair"`
}

// ForexConfig holds the exchange-rate API endpoint and cache TTL.
type ForexConfig struct {
	BaseURL string   `toml:"base_url"`
	RateTTL duration `toml:"rate_ttl"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters and cache TTLs.
type RedisConfig struct {
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	ReportTTL  duration `toml:"report_ttl"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ArchiveConfig controls export of aged simulated trades to object storage.
type ArchiveConfig struct {
	Enabled       bool     `toml:"enabled"`
	RetentionDays int      `toml:"retention_days"`
	Interval      duration `toml:"interval"`
}

// MonitorConfig controls the periodic market evaluation loop.
type MonitorConfig struct {
	Interval duration `toml:"interval"`
}

// ServerConfig holds HTTP server parameters. An empty APIKey disables
// authentication; a zero RateLimitPerMinute disables throttling.
type ServerConfig struct {
	Enabled            bool     `toml:"enabled"`
	Port               int      `toml:"port"`
	CORSOrigins        []string `toml:"cors_origins"`
	APIKey             string   `toml:"api_key"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Arbitrage: ArbitrageConfig{
			ProfitThresholdPercent: "1",
			LiquidityFraction:      "0.1",
		},
		Bybit: BybitConfig{
			BaseURL:        "https://api.bybit.com",
			Symbol:         "BTCUSDT",
			OrderbookLimit: 50,
		},
		Valr: ValrConfig{
			BaseURL: "https://api.valr.com",
			Pair:    "BTCZAR",
		},
		Forex: ForexConfig{
			BaseURL: "https://open.er-api.com",
			RateTTL: duration{5 * time.Minute},
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "randarb",
			User:          "randarb",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
			ReportTTL:  duration{10 * time.Second},
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "randarb-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Archive: ArchiveConfig{
			Enabled:       false,
			RetentionDays: 90,
			Interval:      duration{24 * time.Hour},
		},
		Monitor: MonitorConfig{
			Interval: duration{30 * time.Second},
		},
		Server: ServerConfig{
			Enabled:            true,
			Port:               8000,
			CORSOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerMinute: 120,
		},
		Notify: NotifyConfig{
			Events: []string{notify.EventOpportunity, notify.EventError},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server":  true,
	"monitor": true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, monitor, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Arbitrage thresholds must parse and be sane.
	if p, err := c.Arbitrage.Params(); err != nil {
		errs = append(errs, err.Error())
	} else {
		if p.ProfitThresholdPercent.Sign() < 0 {
			errs = append(errs, "arbitrage: profit_threshold_percent must not be negative")
		}
		if p.LiquidityFraction.Sign() <= 0 || p.LiquidityFraction.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, "arbitrage: liquidity_fraction must be in (0, 1]")
		}
	}

	// Venue endpoints.
	if c.Bybit.BaseURL == "" {
		errs = append(errs, "bybit: base_url must not be empty")
	}
	if c.Bybit.Symbol == "" {
		errs = append(errs, "bybit: symbol must not be empty")
	}
	if c.Bybit.OrderbookLimit <= 0 {
		errs = append(errs, "bybit: orderbook_limit must be > 0")
	}
	if c.Valr.BaseURL == "" {
		errs = append(errs, "valr: base_url must not be empty")
	}
	if c.Valr.Pair == "" {
		errs = append(errs, "valr: pair must not be empty")
	}
	if c.Forex.BaseURL == "" {
		errs = append(errs, "forex: base_url must not be empty")
	}
	if c.Forex.RateTTL.Duration <= 0 {
		errs = append(errs, "forex: rate_ttl must be > 0")
	}

	// Postgres.
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis.
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// S3 is only required when archiving is on.
	if c.Archive.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when archive is enabled")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when archive is enabled")
		}
		if c.Archive.RetentionDays < 1 {
			errs = append(errs, "archive: retention_days must be >= 1")
		}
		if c.Archive.Interval.Duration <= 0 {
			errs = append(errs, "archive: interval must be > 0")
		}
	}

	// Monitor.
	if c.Monitor.Interval.Duration <= 0 {
		errs = append(errs, "monitor: interval must be > 0")
	}

	// Server.
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimitPerMinute < 0 {
			errs = append(errs, "server: rate_limit_per_minute must not be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
