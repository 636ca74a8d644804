package domain

import (
	"context"
	"time"
)

// TradeStore persists simulated trades and their match-plan levels.
type TradeStore interface {
	// Insert stores the trade and its levels atomically.
	Insert(ctx context.Context, trade SimulatedTrade) error
	// GetByID returns one trade with its levels, or ErrNotFound.
	GetByID(ctx context.Context, id string) (SimulatedTrade, error)
	// ListRecent returns trades newest-first, without levels.
	ListRecent(ctx context.Context, opts ListOpts) ([]SimulatedTrade, error)
	Count(ctx context.Context) (int64, error)
	// ListBefore returns all trades created strictly before the given time,
	// with levels, oldest-first. Used by the archiver.
	ListBefore(ctx context.Context, before time.Time) ([]SimulatedTrade, error)
	// DeleteBefore removes trades created before the given time and returns
	// the number deleted. Levels are removed by cascade.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// BlobWriter writes an object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Archiver exports aged simulated trades to blob storage and prunes them
// from the primary store.
type Archiver interface {
	ArchiveBefore(ctx context.Context, before time.Time) (archived int, err error)
}
