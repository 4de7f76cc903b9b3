// Package spreadsheet reads catalog workbooks and writes analog reports.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/analoghub/backend/internal/domain"
)

// Header is the first row of a sheet
type Header []string

// Index returns the position of the named column
func (h Header) Index(name string) (int, bool) {
	for i, col := range h {
		if strings.TrimSpace(col) == name {
			return i, true
		}
	}
	return -1, false
}

// Require returns the positions of names in the given order, or
// ErrMissingColumns naming every absent column
func (h Header) Require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := h.Index(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

// Reader streams the rows of the first sheet of a workbook.
// Every row is padded with "" to at least the header width.
type Reader struct {
	f      *excelize.File
	rows   *excelize.Rows
	header Header
}

// OpenReader opens path and consumes its header row
func OpenReader(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMissingColumns)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	r := &Reader{f: f, rows: rows}
	if rows.Next() {
		header, err := rows.Columns()
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("read header: %w", err)
		}
		r.header = header
	}
	return r, nil
}

// Header returns the header row
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next data row, or io.EOF after the last one
func (r *Reader) Next() ([]string, error) {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	cols, err := r.rows.Columns()
	if err != nil {
		return nil, err
	}
	for len(cols) < len(r.header) {
		cols = append(cols, "")
	}
	return cols, nil
}

// Close releases the workbook
func (r *Reader) Close() error {
	return errors.Join(r.rows.Close(), r.f.Close())
}

// Table is a fully loaded sheet
type Table struct {
	Header Header
	Rows   [][]string
}

// ReadFirstSheet loads the whole first sheet of path
func ReadFirstSheet(path string) (*Table, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	t := &Table{Header: r.Header()}
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+2, err)
		}
		t.Rows = append(t.Rows, row)
	}
}

// ReadHeader returns only the header row of the first sheet of path
func ReadHeader(path string) (Header, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Header(), nil
}

// IsBlank reports whether every cell of row is empty or whitespace
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
