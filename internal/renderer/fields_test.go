package renderer

import (
	"testing"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

func sampleOrder() types.Order {
	return types.Order{
		Date:             "01/02/2024",
		PatientFirstName: "Ann",
		PatientLastName:  "Smith",
		AccountNum:       "1001",
		StreetAddress:    "12 Main St",
		City:             "Springfield",
		State:            "IL",
		Zip:              "62704",
		Telephone:        "555-0100",
		EmailAddress:     "ann@example.com",
		Units:            []int{2, 4},
		RawUnits:         []string{"2", "4.00"},
		HCodes:           []string{"A1234", "E0100"},
		CodeDescriptions: []string{"Wheelchair", "Cane"},
		ICodes:           []string{"SKU1", "SKU2"},
	}
}

func TestBuildFormDataScalars(t *testing.T) {
	fd := BuildFormData(sampleOrder())

	want := map[string]string{
		"PatientLastName": "Smith",
		"PatientName":     "Smith. Ann",
		"AccountNum":      "1001",
		"Date":            "01/02/2024",
		"ServDate":        "01/02/2024",
		"EmailAddress":    "ann@example.com",
	}
	for name, v := range want {
		if got := fd.Text[name]; got != v {
			t.Errorf("Text[%q] = %q, want %q", name, got, v)
		}
	}
	if !fd.Checkboxes["Delivery"] {
		t.Error("Delivery checkbox must always be checked")
	}
}

func TestBuildFormDataIndexedFields(t *testing.T) {
	fd := BuildFormData(sampleOrder())

	if got := fd.Text["Code0"]; got != "A1234" {
		t.Errorf("Code0 = %q", got)
	}
	if got := fd.Text["CodeDescription1"]; got != "Cane" {
		t.Errorf("CodeDescription1 = %q", got)
	}
	if got := fd.Text["Units1"]; got != "4" {
		t.Errorf("Units1 = %q, want fractional text truncated to %q", got, "4")
	}
	if _, ok := fd.Text["Code2"]; ok {
		t.Error("Code2 emitted beyond the order's item count")
	}
}

func TestUnitTextDegradesToVerbatim(t *testing.T) {
	cases := map[string]string{
		"4.00":  "4",
		"2":     "2",
		" 3.5 ": "3",
		"n/a":   "n/a",
		"":      "",
	}
	for raw, want := range cases {
		if got := unitText(raw); got != want {
			t.Errorf("unitText(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLookupFieldLongestPrefixWins(t *testing.T) {
	o := sampleOrder()

	// "CodeDescription1" must bind to the description sequence, not parse as
	// "Code" + "Description1".
	got, ok := LookupField(o, "CodeDescription1")
	if !ok || got != "Cane" {
		t.Errorf("LookupField(CodeDescription1) = %q, %v; want %q, true", got, ok, "Cane")
	}
	got, ok = LookupField(o, "Code1")
	if !ok || got != "E0100" {
		t.Errorf("LookupField(Code1) = %q, %v; want %q, true", got, ok, "E0100")
	}
}

func TestLookupFieldMissingData(t *testing.T) {
	o := sampleOrder()

	if _, ok := LookupField(o, "Code5"); ok {
		t.Error("out-of-range index must resolve to no data")
	}
	if _, ok := LookupField(o, "SomeOtherField"); ok {
		t.Error("unknown template field must resolve to no data, not an error")
	}
	if v, ok := LookupField(o, "Units0"); !ok || v != "2" {
		t.Errorf("LookupField(Units0) = %q, %v", v, ok)
	}
}

func TestValidateOrder(t *testing.T) {
	if err := ValidateOrder(sampleOrder()); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}

	noDate := sampleOrder()
	noDate.Date = "  "
	if err := ValidateOrder(noDate); err == nil {
		t.Error("order without date must fail validation")
	}

	noName := sampleOrder()
	noName.PatientLastName = ""
	if err := ValidateOrder(noName); err == nil {
		t.Error("order without last name must fail validation")
	}

	empty := sampleOrder()
	empty.Units = nil
	empty.RawUnits = nil
	empty.HCodes = nil
	empty.CodeDescriptions = nil
	empty.ICodes = nil
	if err := ValidateOrder(empty); err == nil {
		t.Error("order with no line items must fail validation")
	}

	ragged := sampleOrder()
	ragged.HCodes = ragged.HCodes[:1]
	if err := ValidateOrder(ragged); err == nil {
		t.Error("unequal parallel sequences must fail validation")
	}
}
