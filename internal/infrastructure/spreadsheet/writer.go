package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/analoghub/backend/internal/domain"
)

// Report layout
const (
	ReportSheet   = "Analogs"
	FallbackColor = "F4A460"
)

var (
	reportHeader = []interface{}{"#", domain.ColumnTool, domain.ColumnBrand, domain.ColumnAnalog, domain.ColumnAnalogBrand}
	reportWidths = []float64{6, 45, 20, 45, 20}
)

// ReportRow is one resolved line of an analog report
type ReportRow struct {
	Tool               string
	Brand              string
	Analog             string
	AnalogManufacturer string
	// Fallback marks rows resolved by fuzzy matching; their analog cells are highlighted.
	Fallback bool
}

// WriteAnalogReport writes rows to a new workbook at path
func WriteAnalogReport(path string, rows []ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, w := range reportWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ReportSheet, col, col, w); err != nil {
			return fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	header := reportHeader
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	fallback, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{FallbackColor}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	for i, r := range rows {
		line := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, line)
		values := []interface{}{i + 1, r.Tool, r.Brand, r.Analog, r.AnalogManufacturer}
		if err := f.SetSheetRow(ReportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", line, err)
		}
		if r.Fallback {
			from, _ := excelize.CoordinatesToCellName(4, line)
			to, _ := excelize.CoordinatesToCellName(5, line)
			if err := f.SetCellStyle(ReportSheet, from, to, fallback); err != nil {
				return fmt.Errorf("style row %d: %w", line, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// WriteTable writes header and rows to the first sheet of a new workbook.
// Cells are written as strings.
func WriteTable(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
