// =============================================================================
// TSV to PDF Ticket Generator - Spreadsheet Reader
// =============================================================================
//
// Reader for the spreadsheet export shape. The first four rows are report
// metadata, row five holds the named column headers, and data follows. Cells
// keep their embedded newlines in place, so no continuation repair is needed;
// fully-empty rows are dropped instead.
//
// =============================================================================

package normalizer

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxHeaderRows is the number of metadata rows before the named header row.
const xlsxHeaderRows = 4

// xlsxColumns maps the spreadsheet's named headers onto the canonical column
// layout. Header matching is case-insensitive.
var xlsxColumns = map[string]int{
	"date":                        colDate,
	"customer first name":         colFirstName,
	"customer m.i.":               colMiddleInitial,
	"customer middle name":        colMiddleInitial,
	"customer last name":          colLastName,
	"account number":              colAccountNum,
	"customer ship street":        colStreet,
	"customer ship city":          colCity,
	"customer ship state":         colState,
	"customer ship zip":           colZip,
	"customer phone":              colPhone,
	"customer email":              colEmail,
	"quantity":                    colQuantity,
	"category":                    colCategory,
	"product/service description": colDescription,
	"sku":                         colSKU,
}

// Headers that must be present for the sheet to be usable.
var xlsxRequired = []string{
	"date", "customer first name", "customer last name", "quantity",
	"category", "product/service description", "sku",
}

// NormalizeXLSX parses the spreadsheet export shape.
func NormalizeXLSX(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(rows) <= xlsxHeaderRows {
		slog.Warn("no data rows after trimming header offset", "path", path, "rows", len(rows))
		return &Result{}, nil
	}

	colIndex, err := mapHeaders(rows[xlsxHeaderRows], path)
	if err != nil {
		return nil, err
	}

	dataRows := rows[xlsxHeaderRows+1:]
	acc := newAccumulator()
	acc.result.RowsRead = len(dataRows)

	for i, row := range dataRows {
		if isRowEmpty(row) {
			continue
		}
		canonical := make([]string, columnCount)
		for col, canonicalIdx := range colIndex {
			if col < len(row) {
				canonical[canonicalIdx] = row[col]
			}
		}
		acc.flush(canonical, xlsxHeaderRows+1+i+1)
	}

	return acc.result, nil
}

// mapHeaders resolves the named header row into sheet-column -> canonical
// column positions. A missing required header means the sheet is not the
// supported export shape.
func mapHeaders(header []string, path string) (map[int]int, error) {
	colIndex := make(map[int]int)
	found := make(map[string]bool)

	for col, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonicalIdx, ok := xlsxColumns[key]; ok {
			colIndex[col] = canonicalIdx
			found[key] = true
		}
	}

	for _, name := range xlsxRequired {
		if !found[name] {
			return nil, &FormatError{Path: path, Ext: ".xlsx", Reason: "missing required column " + strconv.Quote(name)}
		}
	}
	return colIndex, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
