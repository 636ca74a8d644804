package valr

// marketSummaryResponse mirrors GET /v1/public/{pair}/marketsummary. All
// numeric fields arrive as strings.
type marketSummaryResponse struct {
	CurrencyPair    string `json:"currencyPair"`
	LastTradedPrice string `json:"lastTradedPrice"`
	BaseVolume      string `json:"baseVolume"`
	HighPrice       string `json:"highPrice"`
	LowPrice        string `json:"lowPrice"`
}

// bookEntry is one level of the VALR order book.
type bookEntry struct {
	Side         string `json:"side"`
	Quantity     string `json:"quantity"`
	Price        string `json:"price"`
	CurrencyPair string `json:"currencyPair"`
	OrderCount   int    `json:"orderCount"`
}

// orderbookResponse mirrors GET /v1/public/{pair}/orderbook. Asks are sorted
// lowest price first and bids highest first.
type orderbookResponse struct {
	Asks []bookEntry `json:"Asks"`
	Bids []bookEntry `json:"Bids"`
}
