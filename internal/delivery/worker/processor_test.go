package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/spreadsheet"
	"github.com/analoghub/backend/internal/infrastructure/storage"
	"github.com/analoghub/backend/internal/usecase"
)

// recordingIndexer counts indexed documents per index
type recordingIndexer struct {
	docs map[string]int
}

func (r *recordingIndexer) BulkIndex(ctx context.Context, index string, docs []domain.Document) error {
	r.docs[index] += len(docs)
	return nil
}

// emptyGateway never finds anything
type emptyGateway struct{}

func (emptyGateway) Search(ctx context.Context, index string, query domain.Query) (*domain.SearchHits, error) {
	return &domain.SearchHits{}, nil
}

func (emptyGateway) FetchByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	return nil, domain.ErrNotFound
}

func newTestProcessor(t *testing.T) (*Processor, *recordingIndexer, *storage.Storage) {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	indexer := &recordingIndexer{docs: map[string]int{}}
	search := usecase.NewSearchService(emptyGateway{}, usecase.NewQueryBuilder(nil), usecase.SearchServiceConfig{})
	ingestion := usecase.NewIngestionService(indexer, store, usecase.IngestionServiceConfig{BatchSize: 100})
	resolver := usecase.NewResolverService(search, store)

	return NewProcessor(ingestion, resolver, store, time.Hour), indexer, store
}

func task(t *testing.T, typ string, payload interface{}) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(typ, data)
}

func writeSheet(t *testing.T, store *storage.Storage, header []string, rows ...[]string) string {
	t.Helper()
	path := store.NewPath(".xlsx")
	require.NoError(t, spreadsheet.WriteTable(path, header, rows))
	return path
}

func TestProcessor_IngestAnalogs(t *testing.T) {
	p, indexer, store := newTestProcessor(t)
	path := writeSheet(t, store,
		[]string{domain.ColumnTool, domain.ColumnBrand, domain.ColumnAnalog, domain.ColumnAnalogBrand},
		[]string{"HK-12", "HORN", "P-12", "PALBIT"},
		[]string{"HK-13", "HORN", "P-13", "PALBIT"},
	)

	err := p.HandleIngestAnalogs(context.Background(), task(t, domain.TaskIngestAnalogs, domain.IngestAnalogsPayload{FilePath: path}))
	require.NoError(t, err)

	assert.Equal(t, 2, indexer.docs["analog"])
	assert.NoFileExists(t, path)
}

func TestProcessor_IngestAnalogsWithLayout(t *testing.T) {
	p, indexer, store := newTestProcessor(t)
	path := writeSheet(t, store,
		[]string{"a", "b", "c", "d"},
		[]string{"HK-12", "HORN", "P-12", "PALBIT"},
	)

	payload := domain.IngestAnalogsPayload{
		FilePath: path,
		Columns:  &domain.AnalogColumns{Base: 0, BaseManufacturer: 1, Analog: 2, AnalogManufacturer: 3},
	}
	require.NoError(t, p.HandleIngestAnalogs(context.Background(), task(t, domain.TaskIngestAnalogs, payload)))
	assert.Equal(t, 1, indexer.docs["analog"])
}

func TestProcessor_FailedJobStillCompletes(t *testing.T) {
	p, indexer, _ := newTestProcessor(t)

	payload := domain.IngestManufacturersPayload{FilePath: "/does/not/exist.zip", FileName: "exist.zip"}
	err := p.HandleIngestManufacturers(context.Background(), task(t, domain.TaskIngestManufacturers, payload))
	assert.NoError(t, err)
	assert.Empty(t, indexer.docs)
}

func TestProcessor_ResolveAnalogs(t *testing.T) {
	p, _, store := newTestProcessor(t)
	path := writeSheet(t, store, []string{domain.ColumnTool, domain.ColumnBrand}, []string{"HK-12", "HORN"})

	err := p.HandleResolveAnalogs(context.Background(), task(t, domain.TaskResolveAnalogs, domain.ResolveAnalogsPayload{FilePath: path}))
	require.NoError(t, err)
	assert.NoFileExists(t, path)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "the report stays in storage until swept")
	assert.Equal(t, ".xlsx", filepath.Ext(entries[0].Name()))
}

func TestProcessor_BadPayloadIsNotRetried(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	handlers := map[string]func(context.Context, *asynq.Task) error{
		domain.TaskIngestAnalogs:       p.HandleIngestAnalogs,
		domain.TaskIngestManufacturers: p.HandleIngestManufacturers,
		domain.TaskResolveAnalogs:      p.HandleResolveAnalogs,
	}
	for typ, handle := range handlers {
		t.Run(typ, func(t *testing.T) {
			err := handle(context.Background(), asynq.NewTask(typ, []byte("not json")))
			assert.True(t, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestProcessor_Sweep(t *testing.T) {
	p, _, store := newTestProcessor(t)

	stale := store.NewPath(".xlsx")
	fresh := store.NewPath(".xlsx")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	now := time.Now()
	old := now.Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	p.now = func() time.Time { return now }

	require.NoError(t, p.HandleSweep(context.Background(), asynq.NewTask(domain.TaskSweepStorage, nil)))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestNewMux_RoutesEveryTaskType(t *testing.T) {
	p, indexer, store := newTestProcessor(t)
	mux := NewMux(p)

	path := writeSheet(t, store,
		[]string{domain.ColumnTool, domain.ColumnBrand, domain.ColumnAnalog, domain.ColumnAnalogBrand},
		[]string{"HK-12", "HORN", "P-12", "PALBIT"},
	)
	err := mux.ProcessTask(context.Background(), task(t, domain.TaskIngestAnalogs, domain.IngestAnalogsPayload{FilePath: path}))
	require.NoError(t, err)
	assert.Equal(t, 1, indexer.docs["analog"])

	err = mux.ProcessTask(context.Background(), asynq.NewTask("unknown:type", nil))
	assert.Error(t, err)
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(asynq.RedisClientOpt{Addr: "localhost:0"}, "not a cron spec")
	assert.Error(t, err)
}
