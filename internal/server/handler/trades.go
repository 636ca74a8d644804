package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"randarb/internal/domain"
)

// TradeReader is the slice of the simulation service the trades handler
// requires.
type TradeReader interface {
	GetTrade(ctx context.Context, id string) (domain.SimulatedTrade, error)
	ListTrades(ctx context.Context, opts domain.ListOpts) ([]domain.SimulatedTrade, error)
	CountTrades(ctx context.Context) (int64, error)
}

// TradesHandler serves the persisted simulated trades endpoints.
type TradesHandler struct {
	trades TradeReader
	logger *slog.Logger
}

// NewTradesHandler creates a TradesHandler.
func NewTradesHandler(trades TradeReader, logger *slog.Logger) *TradesHandler {
	return &TradesHandler{trades: trades, logger: logger}
}

// listTradesResponse wraps the list endpoint output with metadata.
type listTradesResponse struct {
	Trades []TradeDTO `json:"trades"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// ListTrades returns simulated trades newest-first with pagination.
// GET /api/trades?limit=50&offset=0&since=...&until=...
func (h *TradesHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	trades, err := h.trades.ListTrades(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list trades failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}

	total, err := h.trades.CountTrades(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: count trades failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to count trades")
		return
	}

	dtos := make([]TradeDTO, 0, len(trades))
	for _, trade := range trades {
		dtos = append(dtos, toTradeDTO(trade))
	}

	writeJSON(w, http.StatusOK, listTradesResponse{
		Trades: dtos,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// GetTrade returns a single simulated trade with its match-plan levels.
// GET /api/trades/{id}
func (h *TradesHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trade id")
		return
	}

	trade, err := h.trades.GetTrade(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trade not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get trade failed",
			slog.String("trade_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get trade")
		return
	}

	writeJSON(w, http.StatusOK, toTradeDTO(trade))
}
