package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"randarb/internal/arbitrage"
	"randarb/internal/domain"
)

// SimulationService projects the outcome of a hypothetical trade at current
// prices and records it, together with the depth plan that would fill it.
type SimulationService struct {
	bybit  BybitClient
	valr   ValrClient
	rates  *RateSource
	trades domain.TradeStore
	params arbitrage.Params
	logger *slog.Logger
}

// NewSimulationService creates a SimulationService. trades may be nil, in
// which case simulations are not persisted.
func NewSimulationService(
	bybit BybitClient,
	valrc ValrClient,
	rates *RateSource,
	trades domain.TradeStore,
	params arbitrage.Params,
	logger *slog.Logger,
) *SimulationService {
	return &SimulationService{
		bybit:  bybit,
		valr:   valrc,
		rates:  rates,
		trades: trades,
		params: params,
		logger: logger.With(slog.String("component", "simulation_service")),
	}
}

// Simulate projects a round-trip trade of investmentZAR at current reference
// prices, persists the resulting trade record, and returns both. Unlike
// market evaluation, a simulation cannot degrade: missing venue data is an
// error.
func (s *SimulationService) Simulate(ctx context.Context, investmentZAR decimal.Decimal) (domain.SimulatedTrade, domain.SimulationResult, error) {
	if investmentZAR.Sign() <= 0 {
		return domain.SimulatedTrade{}, domain.SimulationResult{}, domain.ErrInvalidAmount
	}

	rate, err := s.rates.Rate(ctx)
	if err != nil {
		return domain.SimulatedTrade{}, domain.SimulationResult{}, fmt.Errorf("simulation_service: exchange rate: %w", err)
	}

	var (
		bybitPrice decimal.Decimal
		bybitBook  domain.OrderBook
		valrPrice  decimal.Decimal
		valrBook   domain.OrderBook
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bybitPrice, err = s.bybit.GetTicker(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bybitBook, err = s.bybit.GetOrderBook(gctx)
		return err
	})
	g.Go(func() error {
		summary, err := s.valr.GetMarketSummary(gctx)
		if err == nil {
			valrPrice = summary.LastTradedPrice
		}
		return err
	})
	g.Go(func() error {
		var err error
		valrBook, err = s.valr.GetOrderBook(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SimulatedTrade{}, domain.SimulationResult{}, fmt.Errorf("simulation_service: fetch market data: %w", err)
	}

	result, err := arbitrage.Simulate(investmentZAR, bybitPrice, valrPrice, rate)
	if err != nil {
		return domain.SimulatedTrade{}, domain.SimulationResult{}, fmt.Errorf("simulation_service: simulate: %w", err)
	}

	premium, err := arbitrage.ComputePremium(bybitPrice, valrPrice, rate, s.params.ProfitThresholdPercent)
	if err != nil {
		return domain.SimulatedTrade{}, domain.SimulationResult{}, fmt.Errorf("simulation_service: premium: %w", err)
	}

	trade := domain.SimulatedTrade{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		InvestmentZAR:  investmentZAR,
		AssetVolume:    result.AssetAmount,
		BybitPriceUSD:  bybitPrice,
		ValrPriceZAR:   valrPrice,
		Rate:           rate,
		PremiumPercent: premium.PremiumPercent,
		ProfitZAR:      result.ProfitZAR,
		ProfitPercent:  result.ProfitPercent,
		Status:         domain.TradeStatusCompleted,
	}

	// The match plan spreads the simulated volume across the books. A failed
	// walk leaves the trade without levels but does not fail the simulation.
	match, err := arbitrage.MatchBooks(
		bybitBook.Bids, valrBook.Asks, rate, result.AssetAmount, s.params.ProfitThresholdPercent)
	if err != nil {
		s.logger.WarnContext(ctx, "match plan failed for simulation",
			slog.String("error", err.Error()),
		)
	} else {
		for _, lvl := range match.Levels {
			trade.Levels = append(trade.Levels, domain.SimulatedTradeLevel{
				TradeID:       trade.ID,
				SellPriceUSD:  lvl.SellPriceUSD,
				BuyPriceZAR:   lvl.BuyPriceZAR,
				Volume:        lvl.Volume,
				SpreadPercent: lvl.SpreadPercent,
			})
		}
	}

	if s.trades != nil {
		if err := s.trades.Insert(ctx, trade); err != nil {
			return domain.SimulatedTrade{}, domain.SimulationResult{}, fmt.Errorf("simulation_service: persist trade: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "trade simulated",
		slog.String("trade_id", trade.ID),
		slog.String("investment_zar", investmentZAR.String()),
		slog.String("profit_zar", result.ProfitZAR.String()),
		slog.String("profit_percent", result.ProfitPercent.StringFixed(4)),
	)
	return trade, result, nil
}

// GetTrade returns one persisted trade with its levels.
func (s *SimulationService) GetTrade(ctx context.Context, id string) (domain.SimulatedTrade, error) {
	if s.trades == nil {
		return domain.SimulatedTrade{}, domain.ErrNotFound
	}
	trade, err := s.trades.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.SimulatedTrade{}, domain.ErrNotFound
		}
		return domain.SimulatedTrade{}, fmt.Errorf("simulation_service: get trade %q: %w", id, err)
	}
	return trade, nil
}

// ListTrades returns persisted trades newest-first.
func (s *SimulationService) ListTrades(ctx context.Context, opts domain.ListOpts) ([]domain.SimulatedTrade, error) {
	if s.trades == nil {
		return nil, nil
	}
	trades, err := s.trades.ListRecent(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("simulation_service: list trades: %w", err)
	}
	return trades, nil
}

// CountTrades returns the number of persisted trades.
func (s *SimulationService) CountTrades(ctx context.Context) (int64, error) {
	if s.trades == nil {
		return 0, nil
	}
	count, err := s.trades.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("simulation_service: count trades: %w", err)
	}
	return count, nil
}
