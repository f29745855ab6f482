// =============================================================================
// TSV to PDF Ticket Generator - Row Repair and Classification
// =============================================================================
//
// Shared row-level logic used by both the TSV and XLSX readers: field layout,
// date/quantity syntax checks, memo detection, cell cleanup, and conversion
// of a raw row into a typed LineItem.
//
// =============================================================================

package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// Canonical column layout of a data row. Both source shapes are mapped onto
// these positions before classification.
const (
	colDate = iota
	colFirstName
	colMiddleInitial
	colLastName
	colAccountNum
	colStreet
	colCity
	colState
	colZip
	colPhone
	colEmail
	colQuantity
	colCategory
	colDescription
	colSKU

	columnCount = 15
)

// dateLayout is the export's date format. Dates are validated against it but
// carried verbatim; reformatting happens only when output file names are
// derived.
const dateLayout = "01/02/2006"

// isDate reports whether s is a syntactically valid MM/DD/YYYY date.
func isDate(s string) bool {
	_, err := time.Parse(dateLayout, strings.TrimSpace(s))
	return err == nil
}

// parseQuantity interprets s as a non-negative whole-unit quantity.
// Decimal text such as "4.00" truncates to 4.
func parseQuantity(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	n := int(f)
	if n < 0 {
		return 0, false
	}
	return n, true
}

// isQuantity reports whether s parses as a non-negative quantity.
func isQuantity(s string) bool {
	_, ok := parseQuantity(s)
	return ok
}

// isNewRecord reports whether a physical row starts a new logical record.
// A row qualifies when it carries a valid date and either a valid quantity
// or the memo shape; anything else is a continuation of the previous
// record's description, produced by embedded newlines in the export.
func isNewRecord(row []string) bool {
	if len(row) < columnCount {
		return false
	}
	if !isDate(row[colDate]) {
		return false
	}
	return isQuantity(row[colQuantity]) || isMemo(row)
}

// isMemo reports whether a completed record is an annotation row: empty
// quantity, empty category, non-empty description, empty SKU.
func isMemo(row []string) bool {
	if len(row) < columnCount {
		return false
	}
	return strings.TrimSpace(row[colQuantity]) == "" &&
		strings.TrimSpace(row[colCategory]) == "" &&
		strings.TrimSpace(row[colDescription]) != "" &&
		strings.TrimSpace(row[colSKU]) == ""
}

// hcpcsCode extracts the HCPCS/billing code: the first whitespace-delimited
// token of the category column. Any trailing text is discarded.
func hcpcsCode(category string) string {
	fields := strings.Fields(category)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// cleanCell removes embedded line breaks left over from the export.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}

// stripQuotes removes one pair of surrounding double quotes, which the
// export wraps around descriptions containing delimiters.
func stripQuotes(s string) string {
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// normalizeOptional maps the spreadsheet's literal "nan" placeholder (and
// plain whitespace) to an empty string. Applies to the optional email and
// middle-initial columns.
func normalizeOptional(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// appendContinuation repairs a record whose description was broken across
// physical lines: the continuation row's cells are space-joined onto the
// record's description field.
func appendContinuation(record, row []string) {
	var parts []string
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			parts = append(parts, cell)
		}
	}
	if len(parts) == 0 {
		return
	}
	tail := strings.Join(parts, " ")
	if record[colDescription] == "" {
		record[colDescription] = tail
		return
	}
	record[colDescription] = record[colDescription] + " " + tail
}

// toLineItem converts a completed, non-memo record into a typed LineItem.
// The second return is false when the record cannot become a line item
// (short row, bad date or bad quantity); such records are dropped.
func toLineItem(row []string) (types.LineItem, bool) {
	if len(row) < columnCount {
		return types.LineItem{}, false
	}
	for i, cell := range row {
		row[i] = cleanCell(cell)
	}
	if !isDate(row[colDate]) {
		return types.LineItem{}, false
	}
	qty, ok := parseQuantity(row[colQuantity])
	if !ok {
		return types.LineItem{}, false
	}

	return types.LineItem{
		Date:                 strings.TrimSpace(row[colDate]),
		PatientFirstName:     strings.TrimSpace(row[colFirstName]),
		PatientMiddleInitial: normalizeOptional(row[colMiddleInitial]),
		PatientLastName:      strings.TrimSpace(row[colLastName]),
		AccountNum:           strings.TrimSpace(row[colAccountNum]),
		StreetAddress:        strings.TrimSpace(row[colStreet]),
		City:                 strings.TrimSpace(row[colCity]),
		State:                strings.TrimSpace(row[colState]),
		Zip:                  strings.TrimSpace(row[colZip]),
		Telephone:            strings.TrimSpace(row[colPhone]),
		EmailAddress:         normalizeOptional(row[colEmail]),
		Quantity:             qty,
		RawQuantity:          strings.TrimSpace(row[colQuantity]),
		HCode:                hcpcsCode(row[colCategory]),
		CodeDescription:      stripQuotes(strings.TrimSpace(row[colDescription])),
		ICode:                strings.TrimSpace(row[colSKU]),
	}, true
}

// accumulator collects completed records, splitting memos from line items
// and suppressing exact duplicates.
type accumulator struct {
	result *Result
	seen   map[types.LineItem]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		result: &Result{},
		seen:   make(map[types.LineItem]struct{}),
	}
}

// flush classifies one completed logical record.
func (a *accumulator) flush(row []string, sourceRow int) {
	if len(row) == 0 {
		return
	}
	if isMemo(row) {
		a.result.Memos = append(a.result.Memos, types.MemoLine{
			Date:        strings.TrimSpace(cleanCell(row[colDate])),
			Description: stripQuotes(strings.TrimSpace(cleanCell(row[colDescription]))),
			SourceRow:   sourceRow,
		})
		return
	}

	item, ok := toLineItem(row)
	if !ok {
		a.result.InvalidDropped++
		return
	}
	if _, dup := a.seen[item]; dup {
		a.result.DuplicatesDropped++
		return
	}
	a.seen[item] = struct{}{}
	a.result.Items = append(a.result.Items, item)
}
