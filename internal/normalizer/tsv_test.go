package normalizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tsvRow joins fields with tabs.
func tsvRow(fields ...string) string {
	return strings.Join(fields, "\t")
}

// dataRow builds a full 15-column data row with the given item fields.
func dataRow(date, first, middle, last, qty, category, desc, sku string) string {
	return tsvRow(date, first, middle, last, "1001", "12 Main St", "Springfield", "IL", "62704",
		"555-0100", "", qty, category, desc, sku)
}

// writeTSV wraps rows in the export's 5-row preamble and 4-row trailer and
// writes the file.
func writeTSV(t *testing.T, rows ...string) string {
	t.Helper()
	var lines []string
	for i := 0; i < tsvPreambleRows; i++ {
		lines = append(lines, "metadata line")
	}
	lines = append(lines, rows...)
	for i := 0; i < tsvTrailerRows; i++ {
		lines = append(lines, "trailer line")
	}

	path := filepath.Join(t.TempDir(), "export.tsv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNormalizeTSVBasic(t *testing.T) {
	path := writeTSV(t,
		dataRow("01/02/2024", "Ann", "B", "Smith", "2", "A1234 wheelchair", "Standard wheelchair", "SKU1"),
		dataRow("01/02/2024", "Ann", "B", "Smith", "3.00", "E0100", "Cane", "SKU2"),
	)

	res, err := NormalizeTSV(path)
	if err != nil {
		t.Fatalf("NormalizeTSV: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}

	first := res.Items[0]
	if first.HCode != "A1234" {
		t.Errorf("HCode = %q, want %q (first token of category)", first.HCode, "A1234")
	}
	if first.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", first.Quantity)
	}
	if got := res.Items[1].Quantity; got != 3 {
		t.Errorf("decimal quantity truncation: got %d, want 3", got)
	}
	if got := res.Items[1].RawQuantity; got != "3.00" {
		t.Errorf("RawQuantity = %q, want %q", got, "3.00")
	}
}

func TestNormalizeTSVContinuationRepair(t *testing.T) {
	path := writeTSV(t,
		dataRow("01/02/2024", "Ann", "B", "Smith", "2", "A1234", "Standard", "SKU1"),
		"wheelchair with leg rests", // broken across lines by the export
		dataRow("01/03/2024", "Bob", "", "Jones", "1", "E0100", "Cane", "SKU2"),
	)

	res, err := NormalizeTSV(path)
	if err != nil {
		t.Fatalf("NormalizeTSV: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}
	want := "Standard wheelchair with leg rests"
	if got := res.Items[0].CodeDescription; got != want {
		t.Errorf("repaired description = %q, want %q", got, want)
	}
}

func TestNormalizeTSVMemoExclusion(t *testing.T) {
	path := writeTSV(t,
		dataRow("01/02/2024", "Ann", "B", "Smith", "2", "A1234", "Wheelchair", "SKU1"),
		dataRow("01/02/2024", "", "", "", "", "", "Deliver to side door", ""),
	)

	res, err := NormalizeTSV(path)
	if err != nil {
		t.Fatalf("NormalizeTSV: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1 (memo must not become a line item)", len(res.Items))
	}
	if len(res.Memos) != 1 {
		t.Fatalf("got %d memos, want 1", len(res.Memos))
	}
	if got := res.Memos[0].Description; got != "Deliver to side door" {
		t.Errorf("memo description = %q", got)
	}
}

func TestNormalizeTSVDuplicateSuppression(t *testing.T) {
	row := dataRow("01/02/2024", "Ann", "B", "Smith", "2", "A1234", "Wheelchair", "SKU1")
	path := writeTSV(t, row, row)

	res, err := NormalizeTSV(path)
	if err != nil {
		t.Fatalf("NormalizeTSV: %v", err)
	}
	if len(res.Items) != 1 {
		t.Errorf("got %d items, want 1 (exact duplicate dropped)", len(res.Items))
	}
	if res.DuplicatesDropped != 1 {
		t.Errorf("DuplicatesDropped = %d, want 1", res.DuplicatesDropped)
	}
}

func TestNormalizeTSVEmptyAfterTrimming(t *testing.T) {
	// Preamble and trailer only: recoverable, empty result, no error.
	path := writeTSV(t)

	res, err := NormalizeTSV(path)
	if err != nil {
		t.Fatalf("NormalizeTSV: %v", err)
	}
	if len(res.Items) != 0 || len(res.Memos) != 0 {
		t.Errorf("want empty result, got %d items %d memos", len(res.Items), len(res.Memos))
	}
}

func TestNormalizeTSVIdempotence(t *testing.T) {
	path := writeTSV(t,
		dataRow("01/02/2024", "Ann", "B", "Smith", "2", "A1234", "Wheelchair", "SKU1"),
		"continued text",
		dataRow("01/02/2024", "", "", "", "", "", "A memo", ""),
	)

	first, err := NormalizeTSV(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NormalizeTSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("normalization is not idempotent (-first +second):\n%s", diff)
	}
}

func TestNormalizeUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.docx")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Normalize(path)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want *FormatError", err)
	}
	if ferr.Ext != ".docx" {
		t.Errorf("FormatError.Ext = %q", ferr.Ext)
	}
}

func TestNormalizeTSVQuoteAndNanCleanup(t *testing.T) {
	path := writeTSV(t,
		tsvRow("01/02/2024", "Ann", "nan", "Smith", "1001", "12 Main St", "Springfield", "IL",
			"62704", "555-0100", "NaN", "2", "A1234", `"Quoted description"`, "SKU1"),
	)

	res, err := NormalizeTSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(res.Items))
	}
	item := res.Items[0]
	if item.PatientMiddleInitial != "" {
		t.Errorf("middle initial %q, want empty for literal nan", item.PatientMiddleInitial)
	}
	if item.EmailAddress != "" {
		t.Errorf("email %q, want empty for literal NaN", item.EmailAddress)
	}
	if item.CodeDescription != "Quoted description" {
		t.Errorf("description %q, want surrounding quotes stripped", item.CodeDescription)
	}
}
