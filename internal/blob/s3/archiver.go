package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"randarb/internal/domain"
)

// TradeArchiver implements domain.Archiver: it exports aged simulated trades
// to blob storage as JSONL and then prunes them from the primary store.
// Deletion only happens after the upload succeeded, so a failed upload never
// loses records.
type TradeArchiver struct {
	writer domain.BlobWriter
	trades domain.TradeStore
	logger *slog.Logger
}

// NewTradeArchiver creates a TradeArchiver.
func NewTradeArchiver(writer domain.BlobWriter, trades domain.TradeStore, logger *slog.Logger) *TradeArchiver {
	return &TradeArchiver{
		writer: writer,
		trades: trades,
		logger: logger.With("component", "archiver"),
	}
}

// ArchiveBefore exports all trades created strictly before the cutoff to
// archive/trades/YYYY-MM.jsonl, then deletes them from the store. Returns the
// number of trades archived.
func (a *TradeArchiver) ArchiveBefore(ctx context.Context, before time.Time) (int, error) {
	trades, err := a.trades.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive query: %w", err)
	}
	if len(trades) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(trades)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive marshal: %w", err)
	}

	key := archiveKey(before)
	if err := a.writer.Put(ctx, key, buf, "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive upload: %w", err)
	}

	deleted, err := a.trades.DeleteBefore(ctx, before)
	if err != nil {
		// The export is already in the bucket, so a failed prune only
		// means the next run re-exports the same rows.
		return len(trades), fmt.Errorf("s3blob: archive prune: %w", err)
	}

	a.logger.Info("archived trades",
		"key", key,
		"archived", len(trades),
		"deleted", deleted,
		"before", before.Format(time.RFC3339),
	)
	return len(trades), nil
}

// archiveKey builds the S3 key for an archive file, partitioned by the
// year-month of the cutoff:
//
//	archive/trades/2025-01.jsonl
func archiveKey(before time.Time) string {
	return fmt.Sprintf("archive/trades/%s.jsonl", before.Format("2006-01"))
}

// marshalJSONL serialises records as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
