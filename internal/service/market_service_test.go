package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randarb/internal/arbitrage"
	"randarb/internal/domain"
	"randarb/internal/platform/valr"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func testParams() arbitrage.Params {
	return arbitrage.Params{
		ProfitThresholdPercent: d("1"),
		LiquidityFraction:      d("0.1"),
	}
}

type stubBybit struct {
	price  decimal.Decimal
	book   domain.OrderBook
	volume decimal.Decimal

	priceErr  error
	bookErr   error
	volumeErr error
}

func (s *stubBybit) GetTicker(context.Context) (decimal.Decimal, error) {
	return s.price, s.priceErr
}

func (s *stubBybit) GetOrderBook(context.Context) (domain.OrderBook, error) {
	return s.book, s.bookErr
}

func (s *stubBybit) Get24hVolume(context.Context) (decimal.Decimal, error) {
	return s.volume, s.volumeErr
}

type stubValr struct {
	summary valr.MarketSummary
	book    domain.OrderBook

	summaryErr error
	bookErr    error
}

func (s *stubValr) GetMarketSummary(context.Context) (valr.MarketSummary, error) {
	return s.summary, s.summaryErr
}

func (s *stubValr) GetOrderBook(context.Context) (domain.OrderBook, error) {
	return s.book, s.bookErr
}

type stubForex struct {
	rate decimal.Decimal
	err  error
}

func (s *stubForex) GetUSDZARRate(context.Context) (decimal.Decimal, error) {
	return s.rate, s.err
}

type memRateCache struct {
	rate decimal.Decimal
	ts   time.Time
	set  bool
}

func (c *memRateCache) SetRate(_ context.Context, rate decimal.Decimal, ts time.Time) error {
	c.rate, c.ts, c.set = rate, ts, true
	return nil
}

func (c *memRateCache) GetRate(context.Context) (decimal.Decimal, time.Time, error) {
	if !c.set {
		return decimal.Decimal{}, time.Time{}, domain.ErrNotFound
	}
	return c.rate, c.ts, nil
}

type memReportCache struct {
	report domain.MarketReport
	set    bool
}

func (c *memReportCache) SetReport(_ context.Context, report domain.MarketReport) error {
	c.report, c.set = report, true
	return nil
}

func (c *memReportCache) GetReport(context.Context) (domain.MarketReport, error) {
	if !c.set {
		return domain.MarketReport{}, domain.ErrNotFound
	}
	return c.report, nil
}

type recordingNotifier struct {
	events []string
	titles []string
}

func (n *recordingNotifier) Notify(_ context.Context, event, title, _ string) error {
	n.events = append(n.events, event)
	n.titles = append(n.titles, title)
	return nil
}

func level(price, volume string) domain.OrderBookLevel {
	return domain.OrderBookLevel{Price: d(price), Volume: d(volume)}
}

func TestMarketServiceEvaluateOpportunity(t *testing.T) {
	bybit := &stubBybit{
		price:  d("100"),
		volume: d("100"),
		book: domain.OrderBook{
			Bids: []domain.OrderBookLevel{level("100", "5")},
		},
	}
	valrc := &stubValr{
		summary: valr.MarketSummary{LastTradedPrice: d("2000"), BaseVolume: d("50")},
		book: domain.OrderBook{
			// 1881 ZAR at rate 19 is 99 USD, a 1.01% spread against the bid.
			Asks: []domain.OrderBookLevel{level("1881", "5")},
		},
	}
	rates := NewRateSource(&stubForex{rate: d("19")}, &memRateCache{}, testLogger())
	reports := &memReportCache{}
	notifier := &recordingNotifier{}

	svc := NewMarketService(bybit, valrc, rates, reports, notifier, testParams(), "BTC USD/ZAR", testLogger())

	report, err := svc.Evaluate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "BTC USD/ZAR", report.Pair)
	assert.True(t, d("19").Equal(report.Rate))
	assert.True(t, d("100").Equal(report.BybitPriceUSD))
	assert.True(t, d("2000").Equal(report.ValrPriceZAR))

	// 2000/19 is ~105.26 USD, a ~5.26% premium over 100.
	assert.True(t, report.Premium.TradeEligible)
	assert.True(t, report.Premium.PremiumPercent.GreaterThan(d("5")))
	assert.True(t, report.Premium.PremiumPercent.LessThan(d("6")))

	// min(100, 50) * 0.1
	assert.True(t, d("5").Equal(report.TradableVolume))

	require.NotNil(t, report.Match)
	assert.True(t, report.Match.Executable)
	assert.True(t, d("5").Equal(report.Match.TotalVolume))
	require.Len(t, report.Match.Levels, 1)

	assert.Equal(t, []string{"opportunity_detected"}, notifier.events)
	assert.True(t, reports.set, "report should be cached")
}

func TestMarketServiceEvaluateBelowThreshold(t *testing.T) {
	bybit := &stubBybit{price: d("100"), volume: d("100")}
	valrc := &stubValr{
		// 1909.5 ZAR at rate 19 is 100.5 USD, only a 0.5% premium.
		summary: valr.MarketSummary{LastTradedPrice: d("1909.5"), BaseVolume: d("50")},
	}
	rates := NewRateSource(&stubForex{rate: d("19")}, &memRateCache{}, testLogger())
	notifier := &recordingNotifier{}

	svc := NewMarketService(bybit, valrc, rates, nil, notifier, testParams(), "BTC USD/ZAR", testLogger())

	report, err := svc.Evaluate(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Premium.TradeEligible)
	assert.Nil(t, report.Match, "no match plan below threshold")
	assert.Empty(t, notifier.events)
}

func TestMarketServiceEvaluateVenueUnavailable(t *testing.T) {
	bybit := &stubBybit{priceErr: domain.ErrUnavailable, bookErr: domain.ErrUnavailable, volumeErr: domain.ErrUnavailable}
	valrc := &stubValr{
		summary: valr.MarketSummary{LastTradedPrice: d("2000"), BaseVolume: d("50")},
	}
	rates := NewRateSource(&stubForex{rate: d("19")}, &memRateCache{}, testLogger())

	svc := NewMarketService(bybit, valrc, rates, nil, nil, testParams(), "BTC USD/ZAR", testLogger())

	report, err := svc.Evaluate(context.Background())
	require.NoError(t, err, "missing venue data degrades the report, it is not an error")

	assert.False(t, report.Premium.TradeEligible)
	require.NotNil(t, report.Match)
	assert.False(t, report.Match.Executable)
	assert.Empty(t, report.Match.Levels)
}

func TestMarketServiceEvaluateRateUnavailable(t *testing.T) {
	rates := NewRateSource(&stubForex{err: domain.ErrUnavailable}, &memRateCache{}, testLogger())
	svc := NewMarketService(&stubBybit{}, &stubValr{}, rates, nil, nil, testParams(), "BTC USD/ZAR", testLogger())

	_, err := svc.Evaluate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestMarketServiceEvaluateServesCachedReport(t *testing.T) {
	cached := domain.MarketReport{Pair: "BTC USD/ZAR", Rate: d("18.5"), GeneratedAt: time.Now()}
	reports := &memReportCache{report: cached, set: true}

	// Clients that would fail if called.
	bybit := &stubBybit{priceErr: domain.ErrUnavailable}
	rates := NewRateSource(&stubForex{err: domain.ErrUnavailable}, &memRateCache{}, testLogger())

	svc := NewMarketService(bybit, &stubValr{}, rates, reports, nil, testParams(), "BTC USD/ZAR", testLogger())

	report, err := svc.Evaluate(context.Background())
	require.NoError(t, err)
	assert.True(t, d("18.5").Equal(report.Rate))
}

func TestRateSourcePrefersCache(t *testing.T) {
	cache := &memRateCache{}
	forex := &stubForex{rate: d("19")}
	rates := NewRateSource(forex, cache, testLogger())

	rate, err := rates.Rate(context.Background())
	require.NoError(t, err)
	assert.True(t, d("19").Equal(rate))
	assert.True(t, cache.set, "fetched rate should be cached")

	// A changed upstream rate is not observed while the cache holds.
	forex.rate = d("20")
	rate, err = rates.Rate(context.Background())
	require.NoError(t, err)
	assert.True(t, d("19").Equal(rate))
}
