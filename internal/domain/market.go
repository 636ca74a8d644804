// Package domain holds the core types shared across the randarb service:
// order books, arbitrage results, simulated trades, and the store and cache
// interfaces their consumers depend on. All money and volume fields are
// shopspring decimals so repeated currency conversions never accumulate
// binary floating-point error.
package domain

import (
	"github.com/shopspring/decimal"
)

// Currency identifies one of the two quote currencies the service trades
// across.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyZAR Currency = "ZAR"
)

// OrderBookLevel is a single depth level of an order book: a price in the
// venue's quote currency and the volume resting at that price.
type OrderBookLevel struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// OrderBook is a snapshot of one venue's book. Bids are sorted best (highest)
// first and asks best (lowest) first, in the order the venue returned them.
// Consumers walk the levels as given and never re-sort.
type OrderBook struct {
	Bids []OrderBookLevel
	Asks []OrderBookLevel
}

// Empty reports whether the book has no depth on either side.
func (b OrderBook) Empty() bool {
	return len(b.Bids) == 0 && len(b.Asks) == 0
}
