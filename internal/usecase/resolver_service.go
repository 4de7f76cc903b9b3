package usecase

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/spreadsheet"
	"github.com/analoghub/backend/internal/infrastructure/storage"
	"github.com/analoghub/backend/internal/textnorm"
)

// resolvePageSize is the hit window of each per-row lookup
const resolvePageSize = 2

// ResolverService answers a whole sheet of tools with their best analogs
type ResolverService struct {
	search  *SearchService
	storage *storage.Storage
}

// NewResolverService creates a new resolver service with dependencies
func NewResolverService(search *SearchService, store *storage.Storage) *ResolverService {
	return &ResolverService{search: search, storage: store}
}

// ResolveAnalogSheet reads the tools of inPath and writes an analog report
// to outPath. Rows are looked up one at a time: an exact wildcard match on
// the normalized base name first, then a fuzzy n-gram match, which is
// highlighted in the report. A failed exact lookup falls back to the fuzzy
// one; a failed fuzzy lookup aborts the sheet.
func (s *ResolverService) ResolveAnalogSheet(ctx context.Context, inPath, outPath string) error {
	table, err := spreadsheet.ReadFirstSheet(inPath)
	if err != nil {
		return err
	}

	idx, err := table.Header.Require(domain.ColumnTool, domain.ColumnBrand)
	if err != nil {
		return err
	}

	report := make([]spreadsheet.ReportRow, 0, len(table.Rows))
	fallbacks := 0
	for i, row := range table.Rows {
		r, err := s.resolveRow(ctx, cell(row, idx[0]), cell(row, idx[1]))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if r.Fallback {
			fallbacks++
		}
		report = append(report, r)
	}

	if err := spreadsheet.WriteAnalogReport(outPath, report); err != nil {
		return err
	}

	log.Printf("[RESOLVE] Resolved %d rows of %s (%d by fuzzy match)", len(report), filepath.Base(inPath), fallbacks)
	return nil
}

func (s *ResolverService) resolveRow(ctx context.Context, tool, brand string) (spreadsheet.ReportRow, error) {
	row := spreadsheet.ReportRow{Tool: tool, Brand: brand}

	n := textnorm.Normalize(tool)
	if n == "" {
		return row, nil
	}

	var hits []domain.AnalogRecord
	if pattern := textnorm.Stringify(n); pattern != "" {
		var err error
		hits, err = s.search.FindAnalogs(ctx, domain.SearchQuery{
			Fields:   []string{domain.FieldBaseName},
			Text:     pattern,
			Mode:     domain.SearchModeString,
			PageSize: resolvePageSize,
		})
		if err != nil {
			// a rejected exact lookup falls through to the fuzzy one
			log.Printf("[RESOLVE] Exact lookup of %q failed: %v", tool, err)
			hits = nil
		}
	}

	if len(hits) == 0 {
		var err error
		row.Fallback = true
		hits, err = s.search.FindAnalogs(ctx, domain.SearchQuery{
			Fields:   []string{domain.FieldBaseNameNgram},
			Text:     n,
			Mode:     domain.SearchModeNgram,
			PageSize: resolvePageSize,
		})
		if err != nil {
			return row, err
		}
	}

	if len(hits) > 0 {
		row.Analog = hits[0].AnalogName
		row.AnalogManufacturer = hits[0].AnalogManufacturer
	}
	return row, nil
}

// ResolveToStorage resolves the sheet at inPath into a fresh scratch file
// and reports its name. The input sheet is removed whatever the outcome.
func (s *ResolverService) ResolveToStorage(ctx context.Context, inPath string) domain.JobResult {
	defer storage.Remove(inPath)

	outPath := s.storage.NewPath(".xlsx")
	if err := s.ResolveAnalogSheet(ctx, inPath, outPath); err != nil {
		log.Printf("[RESOLVE] Sheet %s failed: %v", filepath.Base(inPath), err)
		storage.Remove(outPath)
		return domain.JobFail()
	}

	result := domain.JobOK()
	result.File = filepath.Base(outPath)
	return result
}
