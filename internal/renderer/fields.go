// =============================================================================
// TSV to PDF Ticket Generator - Form Field Mapping
// =============================================================================
//
// Pure mapping from an Order onto the delivery ticket template's field names.
// The template contract:
//   - Scalar order fields bind to identically-named form fields.
//   - "Delivery" is a checkbox that is always checked.
//   - "Date" and "ServDate" carry the order date in its original textual
//     form; reformatting happens only when output file names are derived.
//   - List-valued fields follow an indexed-name convention: "<Prefix><N>"
//     binds to index N of the matching Order sequence. Prefixes are tried
//     longest first so that "CodeDescription3" never binds to "Code".
//
// =============================================================================

package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// ValidationError indicates that an order is missing the fields required to
// render a ticket. The order is skipped and the condition reported to the
// caller; it is never fatal to the batch.
type ValidationError struct {
	Order  types.Order
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order %q (%s) cannot be rendered: %s",
		e.Order.PatientLastName+", "+e.Order.PatientFirstName, e.Order.Date, e.Reason)
}

// ValidateOrder checks that an order can become a ticket. It must carry a
// date and a last name (the ticket's identity) and its parallel sequences
// must be equal-length and non-empty.
func ValidateOrder(o types.Order) *ValidationError {
	if strings.TrimSpace(o.Date) == "" {
		return &ValidationError{Order: o, Reason: "missing date"}
	}
	if strings.TrimSpace(o.PatientLastName) == "" {
		return &ValidationError{Order: o, Reason: "missing patient last name"}
	}
	n := o.ItemCount()
	if n == 0 {
		return &ValidationError{Order: o, Reason: "no line items"}
	}
	if len(o.HCodes) != n || len(o.CodeDescriptions) != n || len(o.ICodes) != n || len(o.RawUnits) != n {
		return &ValidationError{Order: o, Reason: "item sequences have unequal lengths"}
	}
	return nil
}

// listPrefix binds an indexed-name prefix to one of the order's parallel
// sequences.
type listPrefix struct {
	prefix string
	values func(o types.Order) []string
}

// listPrefixes is ordered longest prefix first. Matching in this order keeps
// a shorter prefix from shadowing a longer one.
var listPrefixes = []listPrefix{
	{"CodeDescription", func(o types.Order) []string { return o.CodeDescriptions }},
	{"Units", func(o types.Order) []string { return unitTexts(o) }},
	{"Code", func(o types.Order) []string { return o.HCodes }},
	{"Item", func(o types.Order) []string { return o.ICodes }},
}

// unitTexts renders the quantity sequence: fractional export text such as
// "4.00" truncates to "4"; anything unparseable renders verbatim, never an
// error.
func unitTexts(o types.Order) []string {
	out := make([]string, len(o.RawUnits))
	for i, raw := range o.RawUnits {
		out[i] = unitText(raw)
	}
	return out
}

func unitText(raw string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	return strconv.Itoa(int(f))
}

// FormData holds every field value bound for one ticket.
type FormData struct {
	Text       map[string]string
	Checkboxes map[string]bool
}

// BuildFormData maps an order onto the template's field names. Indexed list
// fields are emitted for indices 0..N-1 only; any higher-indexed fields the
// template may carry are left at their defaults, and template fields with no
// corresponding data are simply never emitted (the fill step skips them
// rather than aborting the document).
func BuildFormData(o types.Order) FormData {
	fd := FormData{
		Text:       make(map[string]string),
		Checkboxes: map[string]bool{"Delivery": true},
	}

	fd.Text["PatientFirstName"] = o.PatientFirstName
	fd.Text["PatientMiddleInitial"] = o.PatientMiddleInitial
	fd.Text["PatientLastName"] = o.PatientLastName
	fd.Text["PatientName"] = strings.TrimSpace(o.PatientLastName + ". " + o.PatientFirstName)
	fd.Text["AccountNum"] = o.AccountNum
	fd.Text["StreetAddress"] = o.StreetAddress
	fd.Text["City"] = o.City
	fd.Text["State"] = o.State
	fd.Text["Zip"] = o.Zip
	fd.Text["Telephone"] = o.Telephone
	fd.Text["EmailAddress"] = o.EmailAddress
	fd.Text["Date"] = o.Date
	fd.Text["ServDate"] = o.Date

	for i := 0; i < o.ItemCount(); i++ {
		idx := strconv.Itoa(i)
		fd.Text["CodeDescription"+idx] = o.CodeDescriptions[i]
		fd.Text["Code"+idx] = o.HCodes[i]
		fd.Text["Item"+idx] = o.ICodes[i]
		fd.Text["Units"+idx] = unitText(o.RawUnits[i])
	}

	return fd
}

// LookupField resolves one template field name against an order, applying
// the same contract as BuildFormData but driven from the template side.
// The boolean is false when the name has no corresponding data (missing
// data is skipped silently, never an error) or the index is out of range.
func LookupField(o types.Order, name string) (string, bool) {
	if v, ok := BuildFormData(o).Text[name]; ok {
		return v, true
	}
	for _, lp := range listPrefixes {
		if !strings.HasPrefix(name, lp.prefix) {
			continue
		}
		idxStr := name[len(lp.prefix):]
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			continue
		}
		values := lp.values(o)
		if idx < 0 || idx >= len(values) {
			return "", false
		}
		return values[idx], true
	}
	return "", false
}
