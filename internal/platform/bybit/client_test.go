package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randarb/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "BTCUSDT", 50)
}

func TestGetTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/tickers", r.URL.Path)
		assert.Equal(t, "spot", r.URL.Query().Get("category"))
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[{"symbol":"BTCUSDT","lastPrice":"101542.37"}]}}`))
	})

	price, err := c.GetTicker(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "101542.37", price.String())
}

func TestGetTickerUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":10001,"retMsg":"params error","result":{"list":[]}}`))
	})

	_, err := c.GetTicker(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetOrderBook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/orderbook", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{
			"b":[["101500.1","0.52"],["101499.9","1.03"]],
			"a":[["101501.0","0.25"]]}}`))
	})

	book, err := c.GetOrderBook(context.Background())
	require.NoError(t, err)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, "101500.1", book.Bids[0].Price.String())
	assert.Equal(t, "0.52", book.Bids[0].Volume.String())
	assert.Equal(t, "101501", book.Asks[0].Price.String())
}

func TestGet24hVolume(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/market/kline", r.URL.Path)
		assert.Equal(t, "D", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
			["1717027200000","101000","102000","100500","101542","2145.33","216845123.4"]]}}`))
	})

	volume, err := c.Get24hVolume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2145.33", volume.String())
}

func TestHTTPErrorSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := c.GetTicker(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
