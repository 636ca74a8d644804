package bybit

// tickersResponse is the envelope returned by /v5/market/tickers.
type tickersResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			Symbol    string `json:"symbol"`
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	} `json:"result"`
}

// orderbookResponse is the envelope returned by /v5/market/orderbook. Bids
// ("b") and asks ("a") are arrays of [price, volume] string pairs, best
// level first.
type orderbookResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Bids [][]string `json:"b"`
		Asks [][]string `json:"a"`
	} `json:"result"`
}

// klineResponse is the envelope returned by /v5/market/kline. Each row is
// [start, open, high, low, close, volume, turnover] as strings, newest row
// first.
type klineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List [][]string `json:"list"`
	} `json:"result"`
}
