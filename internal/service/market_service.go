package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"randarb/internal/arbitrage"
	"randarb/internal/domain"
	"randarb/internal/notify"
	"randarb/internal/platform/valr"
)

// BybitClient is the slice of the Bybit API the services use.
type BybitClient interface {
	GetTicker(ctx context.Context) (decimal.Decimal, error)
	GetOrderBook(ctx context.Context) (domain.OrderBook, error)
	Get24hVolume(ctx context.Context) (decimal.Decimal, error)
}

// ValrClient is the slice of the VALR API the services use.
type ValrClient interface {
	GetMarketSummary(ctx context.Context) (valr.MarketSummary, error)
	GetOrderBook(ctx context.Context) (domain.OrderBook, error)
}

// EventNotifier delivers filtered operator notifications.
type EventNotifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// venueData is one evaluation's worth of market inputs, fetched concurrently.
// Each leg carries its own error so a single venue failure degrades the
// report instead of aborting it.
type venueData struct {
	bybitPrice  decimal.Decimal
	bybitBook   domain.OrderBook
	bybitVolume decimal.Decimal
	valrSummary valr.MarketSummary
	valrBook    domain.OrderBook

	bybitPriceErr  error
	bybitBookErr   error
	bybitVolumeErr error
	valrSummaryErr error
	valrBookErr    error
}

// MarketService evaluates the cross-venue market state: premium, conservative
// sizing, and a depth-aware match plan when the premium qualifies.
type MarketService struct {
	bybit    BybitClient
	valr     ValrClient
	rates    *RateSource
	reports  domain.ReportCache
	notifier EventNotifier
	params   arbitrage.Params
	pair     string
	logger   *slog.Logger
}

// NewMarketService creates a MarketService. reports and notifier may be nil.
func NewMarketService(
	bybit BybitClient,
	valrc ValrClient,
	rates *RateSource,
	reports domain.ReportCache,
	notifier EventNotifier,
	params arbitrage.Params,
	pair string,
	logger *slog.Logger,
) *MarketService {
	return &MarketService{
		bybit:    bybit,
		valr:     valrc,
		rates:    rates,
		reports:  reports,
		notifier: notifier,
		params:   params,
		pair:     pair,
		logger:   logger.With(slog.String("component", "market_service")),
	}
}

// Evaluate produces a MarketReport for the configured pair. Unavailable
// market data yields a report whose match is non-executable rather than an
// error; only a total failure (no exchange rate at all) is returned as one.
func (s *MarketService) Evaluate(ctx context.Context) (domain.MarketReport, error) {
	if s.reports != nil {
		if report, err := s.reports.GetReport(ctx); err == nil {
			return report, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "report cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	rate, err := s.rates.Rate(ctx)
	if err != nil {
		return domain.MarketReport{}, fmt.Errorf("market_service: exchange rate: %w", err)
	}

	data := s.fetchVenues(ctx)

	report := domain.MarketReport{
		Pair:        s.pair,
		Rate:        rate,
		GeneratedAt: time.Now().UTC(),
	}

	if data.bybitPriceErr != nil || data.valrSummaryErr != nil {
		s.logger.WarnContext(ctx, "venue reference price unavailable",
			slog.Any("bybit_error", data.bybitPriceErr),
			slog.Any("valr_error", data.valrSummaryErr),
		)
		report.Match = &domain.MatchResult{TotalVolume: decimal.Zero, Levels: []domain.TradeLevel{}}
		s.cacheReport(ctx, report)
		return report, nil
	}

	report.BybitPriceUSD = data.bybitPrice
	report.ValrPriceZAR = data.valrSummary.LastTradedPrice
	if valrUSD, convErr := arbitrage.ZarToUSD(report.ValrPriceZAR, rate); convErr == nil {
		report.ValrPriceUSD = valrUSD
	}

	premium, err := arbitrage.ComputePremium(
		report.BybitPriceUSD, report.ValrPriceZAR, rate, s.params.ProfitThresholdPercent)
	if err != nil {
		s.logger.WarnContext(ctx, "premium computation failed",
			slog.String("error", err.Error()),
		)
		report.Match = &domain.MatchResult{TotalVolume: decimal.Zero, Levels: []domain.TradeLevel{}}
		s.cacheReport(ctx, report)
		return report, nil
	}
	report.Premium = premium

	report.TradableVolume = s.sizing(ctx, data)

	if premium.TradeEligible {
		report.Match = s.matchPlan(ctx, data, rate, report.TradableVolume)
		if report.Match.Executable {
			s.notifyOpportunity(ctx, report)
		}
	}

	s.cacheReport(ctx, report)
	return report, nil
}

// fetchVenues pulls all five venue inputs concurrently. Errors are captured
// per leg; the group itself never fails.
func (s *MarketService) fetchVenues(ctx context.Context) *venueData {
	data := &venueData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data.bybitPrice, data.bybitPriceErr = s.bybit.GetTicker(gctx)
		return nil
	})
	g.Go(func() error {
		data.bybitBook, data.bybitBookErr = s.bybit.GetOrderBook(gctx)
		return nil
	})
	g.Go(func() error {
		data.bybitVolume, data.bybitVolumeErr = s.bybit.Get24hVolume(gctx)
		return nil
	})
	g.Go(func() error {
		data.valrSummary, data.valrSummaryErr = s.valr.GetMarketSummary(gctx)
		return nil
	})
	g.Go(func() error {
		data.valrBook, data.valrBookErr = s.valr.GetOrderBook(gctx)
		return nil
	})

	_ = g.Wait()
	return data
}

// sizing computes the conservative tradable volume from both venues' 24h
// volumes. Missing volume data sizes to zero.
func (s *MarketService) sizing(ctx context.Context, data *venueData) decimal.Decimal {
	if data.bybitVolumeErr != nil || data.valrSummaryErr != nil {
		s.logger.WarnContext(ctx, "volume data unavailable, sizing to zero",
			slog.Any("bybit_error", data.bybitVolumeErr),
		)
		return decimal.Zero
	}

	volume, err := arbitrage.TradableVolume(
		data.bybitVolume, data.valrSummary.BaseVolume, s.params.LiquidityFraction)
	if err != nil {
		s.logger.WarnContext(ctx, "sizing failed",
			slog.String("error", err.Error()),
		)
		return decimal.Zero
	}
	return volume
}

// matchPlan walks both order books. Missing book data produces an empty
// non-executable result.
func (s *MarketService) matchPlan(ctx context.Context, data *venueData, rate, target decimal.Decimal) *domain.MatchResult {
	empty := &domain.MatchResult{TotalVolume: decimal.Zero, Levels: []domain.TradeLevel{}}

	if data.bybitBookErr != nil || data.valrBookErr != nil {
		s.logger.WarnContext(ctx, "order book unavailable",
			slog.Any("bybit_error", data.bybitBookErr),
			slog.Any("valr_error", data.valrBookErr),
		)
		return empty
	}

	match, err := arbitrage.MatchBooks(
		data.bybitBook.Bids, data.valrBook.Asks, rate, target, s.params.ProfitThresholdPercent)
	if err != nil {
		s.logger.WarnContext(ctx, "book matching failed",
			slog.String("error", err.Error()),
		)
		return empty
	}
	return &match
}

func (s *MarketService) cacheReport(ctx context.Context, report domain.MarketReport) {
	if s.reports == nil {
		return
	}
	if err := s.reports.SetReport(ctx, report); err != nil {
		s.logger.WarnContext(ctx, "report cache write failed",
			slog.String("error", err.Error()),
		)
	}
}

func (s *MarketService) notifyOpportunity(ctx context.Context, report domain.MarketReport) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf(
		"%s premium %s%% (threshold met), executable volume %s across %d levels",
		report.Pair,
		report.Premium.PremiumPercent.StringFixed(4),
		report.Match.TotalVolume.String(),
		len(report.Match.Levels),
	)
	if err := s.notifier.Notify(ctx, notify.EventOpportunity, "Arbitrage opportunity", message); err != nil {
		s.logger.WarnContext(ctx, "opportunity notification failed",
			slog.String("error", err.Error()),
		)
	}
}
