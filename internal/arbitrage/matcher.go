package arbitrage

import (
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// MatchBooks walks the USD venue's bids (sell side, best first) against the
// ZAR venue's asks (buy side, best first) and accumulates the volume that can
// be executed at or above the profit threshold, up to targetVolume.
//
// Levels are paired by index: the i-th ask is matched against the i-th bid.
// Both walks proceed in price-priority order, but this is not a true
// cross-book price-time merge;
// differently sized levels are not split across the opposite book. Changing
// this policy changes results, so it is kept deliberately.
//
// The walk stops at the first level whose spread falls below
// thresholdPercent: spreads degrade monotonically with depth, so deeper
// levels cannot qualify either. A partial fill is still an executable result.
//
// An empty book or exhausted target is a legitimate no-trade outcome, not an
// error; only a non-positive rate is reported as domain.ErrInvalidRate.
func MatchBooks(bybitBids, valrAsks []domain.OrderBookLevel, rate, targetVolume, thresholdPercent decimal.Decimal) (domain.MatchResult, error) {
	if rate.Sign() <= 0 {
		return domain.MatchResult{}, domain.ErrInvalidRate
	}

	empty := domain.MatchResult{
		Executable:  false,
		TotalVolume: decimal.Zero,
		Levels:      []domain.TradeLevel{},
	}
	if len(bybitBids) == 0 || len(valrAsks) == 0 {
		return empty, nil
	}
	if targetVolume.Sign() <= 0 {
		return empty, nil
	}

	depth := len(valrAsks)
	if len(bybitBids) < depth {
		depth = len(bybitBids)
	}

	cumulative := decimal.Zero
	levels := make([]domain.TradeLevel, 0, depth)

	for i := 0; i < depth; i++ {
		ask := valrAsks[i]
		bid := bybitBids[i]

		askUSD, err := ZarToUSD(ask.Price, rate)
		if err != nil {
			return domain.MatchResult{}, err
		}
		// A free ask level is malformed venue data; stop rather than divide
		// by zero.
		if askUSD.Sign() <= 0 {
			break
		}

		spread := bid.Price.Sub(askUSD)
		spreadPct := spread.DivRound(askUSD, divisionPrecision).Mul(hundred)
		if spreadPct.LessThan(thresholdPercent) {
			break
		}

		levelVolume := ask.Volume
		if bid.Volume.LessThan(levelVolume) {
			levelVolume = bid.Volume
		}

		reachedTarget := cumulative.Add(levelVolume).GreaterThanOrEqual(targetVolume)
		if reachedTarget {
			levelVolume = targetVolume.Sub(cumulative)
		}

		levels = append(levels, domain.TradeLevel{
			SellPriceUSD:  bid.Price,
			BuyPriceUSD:   askUSD,
			BuyPriceZAR:   ask.Price,
			Volume:        levelVolume,
			SpreadPercent: spreadPct,
		})
		cumulative = cumulative.Add(levelVolume)

		if reachedTarget {
			break
		}
	}

	return domain.MatchResult{
		Executable:  cumulative.Sign() > 0,
		TotalVolume: cumulative,
		Levels:      levels,
	}, nil
}
