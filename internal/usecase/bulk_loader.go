package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/analoghub/backend/internal/domain"
)

// DefaultBatchSize is the number of documents sent per bulk call
const DefaultBatchSize = 10000

// BulkLoader buffers documents and writes them to one index in fixed-size batches
type BulkLoader struct {
	indexer   domain.BulkIndexer
	index     string
	batchSize int
	buf       []domain.Document
	loaded    int
}

// NewBulkLoader creates a loader for index. A non-positive batchSize selects DefaultBatchSize.
func NewBulkLoader(indexer domain.BulkIndexer, index string, batchSize int) *BulkLoader {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &BulkLoader{
		indexer:   indexer,
		index:     index,
		batchSize: batchSize,
		buf:       make([]domain.Document, 0, batchSize),
	}
}

// Add buffers doc and flushes once the buffer holds a full batch
func (l *BulkLoader) Add(ctx context.Context, doc domain.Document) error {
	l.buf = append(l.buf, doc)
	if len(l.buf) >= l.batchSize {
		return l.Flush(ctx)
	}
	return nil
}

// Flush writes any buffered documents. Flushing an empty buffer is a no-op.
func (l *BulkLoader) Flush(ctx context.Context) error {
	if len(l.buf) == 0 {
		return nil
	}

	if err := l.indexer.BulkIndex(ctx, l.index, l.buf); err != nil {
		return fmt.Errorf("bulk index %s (%d docs after %d loaded): %w", l.index, len(l.buf), l.loaded, err)
	}

	l.loaded += len(l.buf)
	log.Printf("[INGEST] Indexed %d documents into %s (%d total)", len(l.buf), l.index, l.loaded)
	l.buf = make([]domain.Document, 0, l.batchSize)
	return nil
}

// Loaded returns the number of documents written so far
func (l *BulkLoader) Loaded() int {
	return l.loaded
}
