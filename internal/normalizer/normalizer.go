// =============================================================================
// TSV to PDF Ticket Generator - Record Normalizer
// =============================================================================
//
// This module turns a raw billing export into clean, typed line-item records.
// Two source shapes are supported:
//   - Tab-delimited text export (.tsv/.txt): fixed 5-row metadata preamble and
//     4-row trailer, 14-15 columns per data row, descriptions occasionally
//     broken across physical lines by embedded newlines.
//   - Spreadsheet export (.xlsx): 4 metadata rows, then a named-column header
//     row, then data rows.
//
// Both shapes normalize to the same (items, memos) pair:
//   - items: one LineItem per billable row, validated and de-duplicated
//   - memos: annotation rows carried separately, never rendered
//
// =============================================================================

package normalizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// FormatError indicates that the input file is neither of the two supported
// tabular shapes. It is fatal and surfaced before any processing begins.
type FormatError struct {
	Path   string
	Ext    string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported input shape for file %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("unsupported input format %q for file %s (expected .tsv, .txt or .xlsx)", e.Ext, e.Path)
}

// Result is the output of one normalization pass.
type Result struct {
	Items []types.LineItem
	Memos []types.MemoLine

	// RowsRead is the number of physical data rows examined after trimming.
	RowsRead int

	// DuplicatesDropped counts exact-duplicate line items that were suppressed.
	DuplicatesDropped int

	// InvalidDropped counts completed records that were neither a memo nor a
	// valid line item (bad date, bad quantity, short row).
	InvalidDropped int
}

// Normalize dispatches on the file extension and parses the export.
//
// An input that trims down to zero data rows is recoverable: Normalize
// returns an empty Result and no error. An unsupported extension returns a
// *FormatError.
func Normalize(path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tsv", ".txt":
		return NormalizeTSV(path)
	case ".xlsx":
		return NormalizeXLSX(path)
	default:
		return nil, &FormatError{Path: path, Ext: ext}
	}
}
