// Package valr implements the public REST client for the VALR exchange:
// market summary (last traded price, 24h base volume) and order book for one
// currency pair quoted in ZAR.
package valr

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

// Client is the REST client for the VALR public API.
type Client struct {
	baseURL    string
	pair       string
	httpClient *http.Client
}

// NewClient creates a new VALR client.
//
// baseURL is the API root, e.g. "https://api.valr.com". pair is the currency
// pair, e.g. "BTCZAR".
func NewClient(baseURL, pair string) *Client {
	return &Client{
		baseURL: baseURL,
		pair:    pair,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// MarketSummary is the subset of the VALR market summary the service uses.
type MarketSummary struct {
	LastTradedPrice decimal.Decimal
	BaseVolume      decimal.Decimal
}

// GetMarketSummary returns the pair's last traded price (ZAR) and 24h base
// volume.
func (c *Client) GetMarketSummary(ctx context.Context) (MarketSummary, error) {
	var resp marketSummaryResponse
	path := fmt.Sprintf("/v1/public/%s/marketsummary", c.pair)
	if err := c.doRequest(ctx, path, &resp); err != nil {
		return MarketSummary{}, fmt.Errorf("valr: get market summary: %w", err)
	}
	if resp.LastTradedPrice == "" {
		return MarketSummary{}, fmt.Errorf("valr: market summary %s: %w", c.pair, domain.ErrUnavailable)
	}

	price, err := decimal.NewFromString(resp.LastTradedPrice)
	if err != nil {
		return MarketSummary{}, fmt.Errorf("valr: parse last traded price: %w", err)
	}
	volume, err := decimal.NewFromString(resp.BaseVolume)
	if err != nil {
		return MarketSummary{}, fmt.Errorf("valr: parse base volume: %w", err)
	}

	return MarketSummary{LastTradedPrice: price, BaseVolume: volume}, nil
}

// GetOrderBook returns the pair's order book, bids best-first and asks
// best-first, in the order the venue returned them.
func (c *Client) GetOrderBook(ctx context.Context) (domain.OrderBook, error) {
	var resp orderbookResponse
	path := fmt.Sprintf("/v1/public/%s/orderbook", c.pair)
	if err := c.doRequest(ctx, path, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("valr: get orderbook: %w", err)
	}

	bids, err := parseLevels(resp.Bids)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("valr: parse bids: %w", err)
	}
	asks, err := parseLevels(resp.Asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("valr: parse asks: %w", err)
	}

	return domain.OrderBook{Bids: bids, Asks: asks}, nil
}

func parseLevels(raw []bookEntry) ([]domain.OrderBookLevel, error) {
	levels := make([]domain.OrderBookLevel, 0, len(raw))
	for i, e := range raw {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		volume, err := decimal.NewFromString(e.Quantity)
		if err != nil {
			return nil, fmt.Errorf("level %d quantity: %w", i, err)
		}
		levels = append(levels, domain.OrderBookLevel{Price: price, Volume: volume})
	}
	return levels, nil
}

// doRequest builds, sends, and decodes a GET request against the VALR API.
func (c *Client) doRequest(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
