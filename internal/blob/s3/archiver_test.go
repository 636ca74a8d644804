package s3blob

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"randarb/internal/domain"
)

type mockTradeStore struct {
	mock.Mock
}

func (m *mockTradeStore) Insert(ctx context.Context, trade domain.SimulatedTrade) error {
	return m.Called(ctx, trade).Error(0)
}

func (m *mockTradeStore) GetByID(ctx context.Context, id string) (domain.SimulatedTrade, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.SimulatedTrade), args.Error(1)
}

func (m *mockTradeStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.SimulatedTrade, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]domain.SimulatedTrade), args.Error(1)
}

func (m *mockTradeStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTradeStore) ListBefore(ctx context.Context, before time.Time) ([]domain.SimulatedTrade, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.SimulatedTrade), args.Error(1)
}

func (m *mockTradeStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type captureWriter struct {
	key         string
	data        []byte
	contentType string
	err         error
	calls       int
}

func (w *captureWriter) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w.calls++
	w.key = key
	w.data = data
	w.contentType = contentType
	return w.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestTradeArchiver_ArchiveBefore(t *testing.T) {
	cutoff := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	trades := []domain.SimulatedTrade{
		{
			ID:            "4b1c6b1e-3f57-4e4b-9b3f-000000000001",
			CreatedAt:     cutoff.AddDate(0, -1, 0),
			InvestmentZAR: decimal.RequireFromString("190000"),
			Status:        domain.TradeStatusCompleted,
		},
		{
			ID:            "4b1c6b1e-3f57-4e4b-9b3f-000000000002",
			CreatedAt:     cutoff.AddDate(0, -2, 0),
			InvestmentZAR: decimal.RequireFromString("50000"),
			Status:        domain.TradeStatusCompleted,
		},
	}

	store := new(mockTradeStore)
	store.On("ListBefore", mock.Anything, cutoff).Return(trades, nil)
	store.On("DeleteBefore", mock.Anything, cutoff).Return(int64(2), nil)

	writer := &captureWriter{}
	archiver := NewTradeArchiver(writer, store, testLogger())

	archived, err := archiver.ArchiveBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, archived)

	assert.Equal(t, "archive/trades/2025-03.jsonl", writer.key)
	assert.Equal(t, "application/x-ndjson", writer.contentType)

	lines := strings.Split(strings.TrimRight(string(writer.data), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "4b1c6b1e-3f57-4e4b-9b3f-000000000001")

	store.AssertExpectations(t)
}

func TestTradeArchiver_ArchiveBefore_NoTrades(t *testing.T) {
	cutoff := time.Now()

	store := new(mockTradeStore)
	store.On("ListBefore", mock.Anything, cutoff).Return([]domain.SimulatedTrade{}, nil)

	writer := &captureWriter{}
	archiver := NewTradeArchiver(writer, store, testLogger())

	archived, err := archiver.ArchiveBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Zero(t, archived)
	assert.Zero(t, writer.calls)

	store.AssertNotCalled(t, "DeleteBefore", mock.Anything, mock.Anything)
}

func TestTradeArchiver_ArchiveBefore_UploadFailureKeepsRows(t *testing.T) {
	cutoff := time.Now()
	trades := []domain.SimulatedTrade{{ID: "x", CreatedAt: cutoff.Add(-time.Hour)}}

	store := new(mockTradeStore)
	store.On("ListBefore", mock.Anything, cutoff).Return(trades, nil)

	writer := &captureWriter{err: errors.New("bucket gone")}
	archiver := NewTradeArchiver(writer, store, testLogger())

	_, err := archiver.ArchiveBefore(context.Background(), cutoff)
	require.Error(t, err)

	store.AssertNotCalled(t, "DeleteBefore", mock.Anything, mock.Anything)
}
