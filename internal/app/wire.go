package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "randarb/internal/blob/s3"
	"randarb/internal/cache/redis"
	"randarb/internal/config"
	"randarb/internal/domain"
	"randarb/internal/notify"
	"randarb/internal/platform/bybit"
	"randarb/internal/platform/forex"
	"randarb/internal/platform/valr"
	"randarb/internal/service"
	"randarb/internal/store/postgres"
)

// Dependencies bundles everything the application modes need. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Venue clients
	Bybit *bybit.Client
	Valr  *valr.Client
	Forex *forex.Client

	// Persistence
	TradeStore domain.TradeStore

	// Caches
	RateCache   domain.RateCache
	ReportCache domain.ReportCache
	RateLimiter domain.RateLimiter

	// Blob storage
	BlobWriter domain.BlobWriter
	Archiver   domain.Archiver

	// Services
	Rates      *service.RateSource
	Market     *service.MarketService
	Simulation *service.SimulationService

	// Notifications
	Notifier *notify.Notifier
}

// needsPostgres reports whether the mode serves or records simulated trades.
// The monitor loop only needs the database when it also archives.
func needsPostgres(cfg *config.Config) bool {
	switch strings.ToLower(cfg.Mode) {
	case "server", "full":
		return true
	default:
		return cfg.Archive.Enabled
	}
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them with a cleanup function for shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Bybit: bybit.NewClient(cfg.Bybit.BaseURL, cfg.Bybit.Symbol, cfg.Bybit.OrderbookLimit),
		Valr:  valr.NewClient(cfg.Valr.BaseURL, cfg.Valr.Pair),
		Forex: forex.NewClient(cfg.Forex.BaseURL),
	}

	// --- PostgreSQL ---
	if needsPostgres(cfg) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.TradeStore = postgres.NewTradeStore(pgClient)
	}

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.RateCache = redis.NewRateCache(redisClient, cfg.Forex.RateTTL.Duration)
	deps.ReportCache = redis.NewReportCache(redisClient, cfg.Redis.ReportTTL.Duration)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)

	// --- S3 blob storage (archiving only) ---
	if cfg.Archive.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		if deps.TradeStore != nil {
			deps.Archiver = s3blob.NewTradeArchiver(deps.BlobWriter, deps.TradeStore, logger)
		}
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Services ---
	params, err := cfg.Arbitrage.Params()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: arbitrage params: %w", err)
	}
	pair := fmt.Sprintf("%s/%s", cfg.Bybit.Symbol, cfg.Valr.Pair)

	deps.Rates = service.NewRateSource(deps.Forex, deps.RateCache, logger)
	deps.Market = service.NewMarketService(
		deps.Bybit, deps.Valr, deps.Rates, deps.ReportCache, deps.Notifier,
		params, pair, logger,
	)
	deps.Simulation = service.NewSimulationService(
		deps.Bybit, deps.Valr, deps.Rates, deps.TradeStore, params, logger,
	)

	return deps, cleanup, nil
}
