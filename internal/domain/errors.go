package domain

import "errors"

var (
	// ErrInvalidRate is returned when a currency conversion rate is zero or
	// negative.
	ErrInvalidRate = errors.New("invalid exchange rate")
	// ErrInvalidVolume is returned when a traded volume is negative.
	ErrInvalidVolume = errors.New("invalid volume")
	// ErrZeroPrice is returned when a reference price that divides a
	// calculation is zero.
	ErrZeroPrice = errors.New("zero reference price")
	// ErrInvalidAmount is returned when an investment amount is zero or
	// negative.
	ErrInvalidAmount = errors.New("invalid investment amount")
	// ErrUnavailable is returned by platform clients when a venue responds
	// but the requested data is missing or malformed. The service layer maps
	// it to a non-executable report, never to an HTTP failure.
	ErrUnavailable = errors.New("market data unavailable")

	ErrNotFound = errors.New("not found")
)
