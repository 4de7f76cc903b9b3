package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/spreadsheet"
	"github.com/analoghub/backend/internal/infrastructure/storage"
)

// IngestionServiceConfig holds configuration for the ingestion service
type IngestionServiceConfig struct {
	AnalogIndex  string
	ProductIndex string
	BatchSize    int
}

// IngestionService loads analog sheets and manufacturer price lists into the search index
type IngestionService struct {
	indexer      domain.BulkIndexer
	storage      *storage.Storage
	analogIndex  string
	productIndex string
	batchSize    int
	remove       func(path string)
}

// NewIngestionService creates a new ingestion service with dependencies
func NewIngestionService(indexer domain.BulkIndexer, store *storage.Storage, config IngestionServiceConfig) *IngestionService {
	if config.AnalogIndex == "" {
		config.AnalogIndex = "analog"
	}
	if config.ProductIndex == "" {
		config.ProductIndex = "product"
	}
	return &IngestionService{
		indexer:      indexer,
		storage:      store,
		analogIndex:  config.AnalogIndex,
		productIndex: config.ProductIndex,
		batchSize:    config.BatchSize,
		remove:       storage.Remove,
	}
}

// IngestAnalogSheet indexes every non-blank row of the sheet at path as an
// analog record. Columns are located by header unless layout fixes them.
// The sheet is removed afterwards whatever the outcome.
func (s *IngestionService) IngestAnalogSheet(ctx context.Context, path string, layout *domain.AnalogColumns) domain.JobResult {
	defer s.remove(path)

	n, err := s.loadAnalogSheet(ctx, path, layout)
	if err != nil {
		log.Printf("[INGEST] Analog sheet %s failed after %d rows: %v", filepath.Base(path), n, err)
		return domain.JobFail()
	}

	log.Printf("[INGEST] Analog sheet %s loaded: %d records", filepath.Base(path), n)
	return domain.JobOK()
}

func (s *IngestionService) loadAnalogSheet(ctx context.Context, path string, layout *domain.AnalogColumns) (int, error) {
	r, err := spreadsheet.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	cols, err := analogColumns(r.Header(), layout)
	if err != nil {
		return 0, err
	}

	loader := NewBulkLoader(s.indexer, s.analogIndex, s.batchSize)
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return loader.Loaded(), err
		}
		if spreadsheet.IsBlank(row) {
			continue
		}

		rec := domain.NewAnalogRecord(
			cell(row, cols.Base),
			cell(row, cols.BaseManufacturer),
			cell(row, cols.Analog),
			cell(row, cols.AnalogManufacturer),
		)
		if err := loader.Add(ctx, rec); err != nil {
			return loader.Loaded(), err
		}
	}

	if err := loader.Flush(ctx); err != nil {
		return loader.Loaded(), err
	}
	return loader.Loaded(), nil
}

// analogColumns resolves the four analog columns by header or fixed layout
func analogColumns(header spreadsheet.Header, layout *domain.AnalogColumns) (domain.AnalogColumns, error) {
	if layout != nil {
		for _, i := range []int{layout.Base, layout.BaseManufacturer, layout.Analog, layout.AnalogManufacturer} {
			if i < 0 {
				return domain.AnalogColumns{}, fmt.Errorf("%w: negative column offset %d", domain.ErrInvalidRequest, i)
			}
		}
		return *layout, nil
	}

	idx, err := header.Require(domain.ColumnTool, domain.ColumnBrand, domain.ColumnAnalog, domain.ColumnAnalogBrand)
	if err != nil {
		return domain.AnalogColumns{}, err
	}
	return domain.AnalogColumns{Base: idx[0], BaseManufacturer: idx[1], Analog: idx[2], AnalogManufacturer: idx[3]}, nil
}

// IngestManufacturerArchive unpacks a zip of price lists and indexes every
// workbook whose file name starts with a known manufacturer. Unknown
// workbooks are skipped. The archive and its scratch directory are removed
// whatever the outcome.
func (s *IngestionService) IngestManufacturerArchive(ctx context.Context, path, fileName string) domain.JobResult {
	defer s.remove(path)

	dir, err := s.storage.NewJobDir()
	if err != nil {
		log.Printf("[INGEST] Archive %s failed: %v", fileName, err)
		return domain.JobFail()
	}
	defer s.remove(dir)

	n, err := s.loadArchive(ctx, path, dir)
	if err != nil {
		log.Printf("[INGEST] Archive %s failed after %d records: %v", fileName, n, err)
		return domain.JobFail()
	}

	log.Printf("[INGEST] Archive %s loaded: %d records", fileName, n)
	return domain.JobOK()
}

func (s *IngestionService) loadArchive(ctx context.Context, archive, dir string) (int, error) {
	files, err := storage.ExtractZip(archive, dir)
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	loader := NewBulkLoader(s.indexer, s.productIndex, s.batchSize)
	for _, file := range files {
		if !isPriceList(file) {
			continue
		}

		name := filepath.Base(file)
		m, ok := DetectManufacturer(name)
		if !ok {
			log.Printf("[INGEST] Skipping %s: unknown manufacturer", name)
			continue
		}

		if err := s.loadPriceList(ctx, loader, file, m); err != nil {
			return loader.Loaded(), fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := loader.Flush(ctx); err != nil {
		return loader.Loaded(), err
	}
	return loader.Loaded(), nil
}

func (s *IngestionService) loadPriceList(ctx context.Context, loader *BulkLoader, file string, m ManufacturerMapping) error {
	r, err := spreadsheet.OpenReader(file)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if spreadsheet.IsBlank(row) {
			continue
		}
		if err := loader.Add(ctx, domain.NewProductRecord(m.MapRow(row))); err != nil {
			return err
		}
	}
}

// isPriceList filters archive members down to real workbooks, skipping
// macOS resource forks
func isPriceList(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "._") || strings.Contains(filepath.ToSlash(path), "__MACOSX/") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}
