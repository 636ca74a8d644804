package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// Simulator is the slice of the simulation service this handler requires.
type Simulator interface {
	Simulate(ctx context.Context, investmentZAR decimal.Decimal) (domain.SimulatedTrade, domain.SimulationResult, error)
}

// SimulateHandler serves the trade simulation endpoint.
type SimulateHandler struct {
	sim    Simulator
	logger *slog.Logger
}

// NewSimulateHandler creates a SimulateHandler.
func NewSimulateHandler(sim Simulator, logger *slog.Logger) *SimulateHandler {
	return &SimulateHandler{sim: sim, logger: logger}
}

// defaultInvestmentZAR is used when the amount parameter is omitted.
var defaultInvestmentZAR = decimal.NewFromInt(10000)

// Simulate projects a trade of the given ZAR amount at current prices.
// GET /api/simulate?amount=190000
func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	amount := defaultInvestmentZAR
	if raw := r.URL.Query().Get("amount"); raw != "" {
		var err error
		amount, err = decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "amount must be a decimal number")
			return
		}
	}

	trade, result, err := h.sim.Simulate(r.Context(), amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "amount must be positive")
		case errors.Is(err, domain.ErrUnavailable):
			writeError(w, http.StatusServiceUnavailable, "market data unavailable")
		default:
			h.logger.ErrorContext(r.Context(), "handler: simulation failed",
				slog.String("amount", amount.String()),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "simulation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, toSimulationDTO(trade, result))
}
