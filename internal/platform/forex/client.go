// Package forex implements the client for the open.er-api.com exchange-rate
// API, used to fetch the USD→ZAR conversion rate.
package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// Client is the REST client for the exchange-rate API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new forex client. baseURL is the API root, e.g.
// "https://open.er-api.com".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ratesResponse mirrors GET /v6/latest/USD. Rates are decoded as
// json.Number so they reach the decimal type without a float64 detour.
type ratesResponse struct {
	Result string                 `json:"result"`
	Rates  map[string]json.Number `json:"rates"`
}

// GetUSDZARRate returns the current ZAR-per-USD rate.
func (c *Client) GetUSDZARRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v6/latest/USD", nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("forex: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("forex: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("forex: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Decimal{}, fmt.Errorf("forex: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Decimal{}, fmt.Errorf("forex: decode response: %w", err)
	}
	if parsed.Result != "success" {
		return decimal.Decimal{}, fmt.Errorf("forex: result %q: %w", parsed.Result, domain.ErrUnavailable)
	}

	raw, ok := parsed.Rates["ZAR"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("forex: no ZAR rate: %w", domain.ErrUnavailable)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("forex: parse ZAR rate: %w", err)
	}
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("forex: non-positive ZAR rate %s: %w", rate, domain.ErrInvalidRate)
	}
	return rate, nil
}
