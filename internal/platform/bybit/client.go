// Package bybit implements the public REST client for the Bybit v5 market
// API: last traded price, order book, and daily kline volume for one spot
// symbol.
package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"randarb/internal/domain"
)

// Client is the REST client for the Bybit public market-data API.
type Client struct {
	baseURL        string
	symbol         string
	orderbookLimit int
	httpClient     *http.Client
}

// NewClient creates a new Bybit client.
//
// baseURL is the API root, e.g. "https://api.bybit.com". symbol is the spot
// instrument, e.g. "BTCUSDT".
func NewClient(baseURL, symbol string, orderbookLimit int) *Client {
	return &Client{
		baseURL:        baseURL,
		symbol:         symbol,
		orderbookLimit: orderbookLimit,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetTicker returns the symbol's last traded price in USD.
func (c *Client) GetTicker(ctx context.Context) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("category", "spot")
	params.Set("symbol", c.symbol)

	var resp tickersResponse
	if err := c.doRequest(ctx, "/v5/market/tickers", params, &resp); err != nil {
		return decimal.Decimal{}, fmt.Errorf("bybit: get ticker: %w", err)
	}
	if resp.RetCode != 0 || len(resp.Result.List) == 0 {
		return decimal.Decimal{}, fmt.Errorf("bybit: ticker %s: %s: %w", c.symbol, resp.RetMsg, domain.ErrUnavailable)
	}

	price, err := decimal.NewFromString(resp.Result.List[0].LastPrice)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bybit: parse last price: %w", err)
	}
	return price, nil
}

// GetOrderBook returns the symbol's order book, bids best-first and asks
// best-first, in the order the venue returned them.
func (c *Client) GetOrderBook(ctx context.Context) (domain.OrderBook, error) {
	params := url.Values{}
	params.Set("category", "spot")
	params.Set("symbol", c.symbol)
	params.Set("limit", strconv.Itoa(c.orderbookLimit))

	var resp orderbookResponse
	if err := c.doRequest(ctx, "/v5/market/orderbook", params, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("bybit: get orderbook: %w", err)
	}
	if resp.RetCode != 0 {
		return domain.OrderBook{}, fmt.Errorf("bybit: orderbook %s: %s: %w", c.symbol, resp.RetMsg, domain.ErrUnavailable)
	}

	bids, err := parseLevels(resp.Result.Bids)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("bybit: parse bids: %w", err)
	}
	asks, err := parseLevels(resp.Result.Asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("bybit: parse asks: %w", err)
	}

	return domain.OrderBook{Bids: bids, Asks: asks}, nil
}

// Get24hVolume returns the symbol's traded volume for the most recent daily
// kline.
func (c *Client) Get24hVolume(ctx context.Context) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("category", "spot")
	params.Set("symbol", c.symbol)
	params.Set("interval", "D")

	var resp klineResponse
	if err := c.doRequest(ctx, "/v5/market/kline", params, &resp); err != nil {
		return decimal.Decimal{}, fmt.Errorf("bybit: get kline: %w", err)
	}
	if resp.RetCode != 0 || len(resp.Result.List) == 0 {
		return decimal.Decimal{}, fmt.Errorf("bybit: kline %s: %s: %w", c.symbol, resp.RetMsg, domain.ErrUnavailable)
	}

	// Kline rows are [start, open, high, low, close, volume, turnover].
	row := resp.Result.List[0]
	if len(row) < 6 {
		return decimal.Decimal{}, fmt.Errorf("bybit: kline row has %d fields: %w", len(row), domain.ErrUnavailable)
	}
	volume, err := decimal.NewFromString(row[5])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bybit: parse volume: %w", err)
	}
	return volume, nil
}

// parseLevels converts the venue's [price, volume] string pairs into order
// book levels, preserving order.
func parseLevels(raw [][]string) ([]domain.OrderBookLevel, error) {
	levels := make([]domain.OrderBookLevel, 0, len(raw))
	for i, pair := range raw {
		if len(pair) < 2 {
			return nil, fmt.Errorf("level %d has %d fields", i, len(pair))
		}
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		volume, err := decimal.NewFromString(pair[1])
		if err != nil {
			return nil, fmt.Errorf("level %d volume: %w", i, err)
		}
		levels = append(levels, domain.OrderBookLevel{Price: price, Volume: volume})
	}
	return levels, nil
}

// doRequest builds, sends, and decodes a GET request against the Bybit API.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, out any) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
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
