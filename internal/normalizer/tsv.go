// =============================================================================
// TSV to PDF Ticket Generator - Delimited Text Reader
// =============================================================================
//
// Reader for the tab-delimited export. The export wraps the data in a fixed
// 5-row metadata preamble and a 4-row trailer, and breaks long descriptions
// across physical lines, so rows must be repaired before classification.
//
// =============================================================================

package normalizer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
)

// Fixed metadata rows wrapped around the delimited-text data. The header row
// on line 5 is not needed; positions are fixed.
const (
	tsvPreambleRows = 5
	tsvTrailerRows  = 4
)

// NormalizeTSV parses the tab-delimited export shape.
func NormalizeTSV(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read TSV: %w", err)
	}

	if len(allRows) <= tsvPreambleRows+tsvTrailerRows {
		slog.Warn("no data rows after trimming preamble and trailer", "path", path, "rows", len(allRows))
		return &Result{}, nil
	}
	dataRows := allRows[tsvPreambleRows : len(allRows)-tsvTrailerRows]

	acc := newAccumulator()
	acc.result.RowsRead = len(dataRows)

	// Forward scan with one-record lookbehind: a row either starts a new
	// logical record or continues the previous record's description.
	var current []string
	currentSource := 0
	for i, row := range dataRows {
		if isNewRecord(row) {
			acc.flush(current, currentSource)
			current = append([]string(nil), row...)
			currentSource = tsvPreambleRows + i + 1
			continue
		}
		if len(current) > 0 {
			appendContinuation(current, row)
		}
	}
	// Trailing record at end-of-input goes through the same classification.
	acc.flush(current, currentSource)

	return acc.result, nil
}
