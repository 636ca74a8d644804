package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// TradeStore persists simulated trades in PostgreSQL.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a TradeStore over the given client.
func NewTradeStore(client *Client) *TradeStore {
	return &TradeStore{pool: client.Pool()}
}

// Numeric columns are selected as text and re-parsed so that values survive
// the round trip without any float conversion.
const tradeColumns = `
	id, created_at,
	investment_zar::text, asset_volume::text,
	bybit_price_usd::text, valr_price_zar::text,
	rate::text, premium_percent::text,
	profit_zar::text, profit_percent::text,
	status`

// Insert stores a trade and its levels in one transaction.
func (s *TradeStore) Insert(ctx context.Context, trade domain.SimulatedTrade) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("trade store: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO simulated_trades (
			id, created_at, investment_zar, asset_volume,
			bybit_price_usd, valr_price_zar, rate, premium_percent,
			profit_zar, profit_percent, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		trade.ID, trade.CreatedAt,
		trade.InvestmentZAR.String(), trade.AssetVolume.String(),
		trade.BybitPriceUSD.String(), trade.ValrPriceZAR.String(),
		trade.Rate.String(), trade.PremiumPercent.String(),
		trade.ProfitZAR.String(), trade.ProfitPercent.String(),
		string(trade.Status),
	)
	if err != nil {
		return fmt.Errorf("trade store: insert trade %s: %w", trade.ID, err)
	}

	for _, lvl := range trade.Levels {
		_, err = tx.Exec(ctx, `
			INSERT INTO trade_levels (
				trade_id, sell_price_usd, buy_price_zar, volume, spread_percent
			) VALUES ($1, $2, $3, $4, $5)`,
			trade.ID,
			lvl.SellPriceUSD.String(), lvl.BuyPriceZAR.String(),
			lvl.Volume.String(), lvl.SpreadPercent.String(),
		)
		if err != nil {
			return fmt.Errorf("trade store: insert level for trade %s: %w", trade.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("trade store: commit: %w", err)
	}
	return nil
}

// GetByID returns a single trade with its levels.
func (s *TradeStore) GetByID(ctx context.Context, id string) (domain.SimulatedTrade, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tradeColumns+` FROM simulated_trades WHERE id = $1`, id)

	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SimulatedTrade{}, domain.ErrNotFound
		}
		return domain.SimulatedTrade{}, fmt.Errorf("trade store: get %s: %w", id, err)
	}

	levels, err := s.levelsForTrades(ctx, []string{trade.ID})
	if err != nil {
		return domain.SimulatedTrade{}, err
	}
	trade.Levels = levels[trade.ID]
	return trade, nil
}

// ListRecent returns trades newest-first without levels.
func (s *TradeStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.SimulatedTrade, error) {
	var (
		conds []string
		args  []any
	)
	if opts.Since != nil {
		args = append(args, *opts.Since)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if opts.Until != nil {
		args = append(args, *opts.Until)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `SELECT ` + tradeColumns + ` FROM simulated_trades`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("trade store: list recent: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

// Count returns the total number of stored trades.
func (s *TradeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM simulated_trades").Scan(&n); err != nil {
		return 0, fmt.Errorf("trade store: count: %w", err)
	}
	return n, nil
}

// ListBefore returns trades created strictly before the given time, with
// levels, oldest-first.
func (s *TradeStore) ListBefore(ctx context.Context, before time.Time) ([]domain.SimulatedTrade, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tradeColumns+` FROM simulated_trades
		 WHERE created_at < $1 ORDER BY created_at ASC`, before)
	if err != nil {
		return nil, fmt.Errorf("trade store: list before: %w", err)
	}
	defer rows.Close()

	trades, err := collectTrades(rows)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return trades, nil
	}

	ids := make([]string, len(trades))
	for i, t := range trades {
		ids[i] = t.ID
	}
	levels, err := s.levelsForTrades(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range trades {
		trades[i].Levels = levels[trades[i].ID]
	}
	return trades, nil
}

// DeleteBefore removes trades older than the given time. Levels go with them
// via the foreign key cascade.
func (s *TradeStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM simulated_trades WHERE created_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("trade store: delete before: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *TradeStore) levelsForTrades(ctx context.Context, ids []string) (map[string][]domain.SimulatedTradeLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, trade_id,
		       sell_price_usd::text, buy_price_zar::text,
		       volume::text, spread_percent::text
		FROM trade_levels
		WHERE trade_id = ANY($1)
		ORDER BY id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("trade store: load levels: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.SimulatedTradeLevel, len(ids))
	for rows.Next() {
		var (
			lvl                                  domain.SimulatedTradeLevel
			sellPrice, buyPrice, volume, spread string
		)
		if err := rows.Scan(&lvl.ID, &lvl.TradeID, &sellPrice, &buyPrice, &volume, &spread); err != nil {
			return nil, fmt.Errorf("trade store: scan level: %w", err)
		}
		if lvl.SellPriceUSD, err = decimal.NewFromString(sellPrice); err != nil {
			return nil, fmt.Errorf("trade store: parse level sell price: %w", err)
		}
		if lvl.BuyPriceZAR, err = decimal.NewFromString(buyPrice); err != nil {
			return nil, fmt.Errorf("trade store: parse level buy price: %w", err)
		}
		if lvl.Volume, err = decimal.NewFromString(volume); err != nil {
			return nil, fmt.Errorf("trade store: parse level volume: %w", err)
		}
		if lvl.SpreadPercent, err = decimal.NewFromString(spread); err != nil {
			return nil, fmt.Errorf("trade store: parse level spread: %w", err)
		}
		out[lvl.TradeID] = append(out[lvl.TradeID], lvl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trade store: iterate levels: %w", err)
	}
	return out, nil
}

func collectTrades(rows pgx.Rows) ([]domain.SimulatedTrade, error) {
	var trades []domain.SimulatedTrade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("trade store: scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trade store: iterate trades: %w", err)
	}
	return trades, nil
}

func scanTrade(row pgx.Row) (domain.SimulatedTrade, error) {
	var (
		trade  domain.SimulatedTrade
		status string
		nums   [8]string
	)
	err := row.Scan(
		&trade.ID, &trade.CreatedAt,
		&nums[0], &nums[1], &nums[2], &nums[3],
		&nums[4], &nums[5], &nums[6], &nums[7],
		&status,
	)
	if err != nil {
		return domain.SimulatedTrade{}, err
	}

	fields := []*decimal.Decimal{
		&trade.InvestmentZAR, &trade.AssetVolume,
		&trade.BybitPriceUSD, &trade.ValrPriceZAR,
		&trade.Rate, &trade.PremiumPercent,
		&trade.ProfitZAR, &trade.ProfitPercent,
	}
	for i, dst := range fields {
		d, err := decimal.NewFromString(nums[i])
		if err != nil {
			return domain.SimulatedTrade{}, fmt.Errorf("parse numeric column: %w", err)
		}
		*dst = d
	}
	trade.Status = domain.TradeStatus(status)
	return trade, nil
}
