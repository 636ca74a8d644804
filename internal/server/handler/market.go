package handler

import (
	"context"
	"log/slog"
	"net/http"

	"randarb/internal/domain"
)

// MarketEvaluator is the slice of the market service this handler requires.
type MarketEvaluator interface {
	Evaluate(ctx context.Context) (domain.MarketReport, error)
}

// MarketHandler serves the live market evaluation endpoint.
type MarketHandler struct {
	market MarketEvaluator
	logger *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(market MarketEvaluator, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{market: market, logger: logger}
}

// GetMarket returns the current cross-venue market report.
// GET /api/market
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	report, err := h.market.Evaluate(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: market evaluation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "market data unavailable")
		return
	}

	writeJSON(w, http.StatusOK, ToMarketReportDTO(report))
}
