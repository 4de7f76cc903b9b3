package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analoghub/backend/internal/domain"
)

// MockBulkIndexer records every bulk call
type MockBulkIndexer struct {
	calls   [][]domain.Document
	indices []string
	err     error
}

func (m *MockBulkIndexer) BulkIndex(ctx context.Context, index string, docs []domain.Document) error {
	if m.err != nil {
		return m.err
	}
	batch := make([]domain.Document, len(docs))
	copy(batch, docs)
	m.calls = append(m.calls, batch)
	m.indices = append(m.indices, index)
	return nil
}

func (m *MockBulkIndexer) total() int {
	n := 0
	for _, c := range m.calls {
		n += len(c)
	}
	return n
}

func TestBulkLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("one record past the batch size yields a trailing call", func(t *testing.T) {
		indexer := &MockBulkIndexer{}
		loader := NewBulkLoader(indexer, "analog", 10000)

		for i := 0; i < 10001; i++ {
			require.NoError(t, loader.Add(ctx, domain.NewAnalogRecord("T1", "PALBIT", "X1", "HORN")))
		}
		require.NoError(t, loader.Flush(ctx))

		require.Len(t, indexer.calls, 2)
		assert.Len(t, indexer.calls[0], 10000)
		assert.Len(t, indexer.calls[1], 1)
		assert.Equal(t, 10001, loader.Loaded())
		assert.Equal(t, []string{"analog", "analog"}, indexer.indices)
	})

	t.Run("exact multiple produces no empty trailing call", func(t *testing.T) {
		indexer := &MockBulkIndexer{}
		loader := NewBulkLoader(indexer, "analog", 3)

		for i := 0; i < 6; i++ {
			require.NoError(t, loader.Add(ctx, domain.NewAnalogRecord("T1", "PALBIT", "X1", "HORN")))
		}
		require.NoError(t, loader.Flush(ctx))

		assert.Len(t, indexer.calls, 2)
		assert.Equal(t, 6, indexer.total())
	})

	t.Run("empty input makes no calls", func(t *testing.T) {
		indexer := &MockBulkIndexer{}
		loader := NewBulkLoader(indexer, "analog", 3)

		require.NoError(t, loader.Flush(ctx))
		assert.Empty(t, indexer.calls)
	})

	t.Run("non-positive batch size falls back to default", func(t *testing.T) {
		loader := NewBulkLoader(&MockBulkIndexer{}, "analog", 0)
		assert.Equal(t, DefaultBatchSize, loader.batchSize)
	})

	t.Run("indexer error is returned", func(t *testing.T) {
		indexer := &MockBulkIndexer{err: domain.ErrBadQuery}
		loader := NewBulkLoader(indexer, "analog", 1)

		err := loader.Add(ctx, domain.NewAnalogRecord("T1", "PALBIT", "X1", "HORN"))
		assert.True(t, errors.Is(err, domain.ErrBadQuery))
		assert.Equal(t, 0, loader.Loaded())
	})
}
