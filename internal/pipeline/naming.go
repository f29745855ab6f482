// =============================================================================
// TSV to PDF Ticket Generator - Output Naming
// =============================================================================
//
// Deterministic file naming for final tickets: sanitized patient name plus
// the order date reformatted from MM/DD/YYYY to MMDDYYYY. Name collisions are
// not de-duplicated; a later ticket overwrites an earlier one.
//
// =============================================================================

package pipeline

import (
	"strings"
	"time"
	"unicode"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// SanitizeName strips every character that is not alphanumeric, space,
// underscore or hyphen, then trims trailing whitespace.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " \t")
}

// FormatDateForFileName reformats MM/DD/YYYY to MMDDYYYY. Unparseable dates
// degrade to the "unknown_date" sentinel rather than failing.
func FormatDateForFileName(date string) string {
	t, err := time.Parse("01/02/2006", strings.TrimSpace(date))
	if err != nil {
		return "unknown_date"
	}
	return t.Format("01022006")
}

// FinalFileName derives the output name for one order's ticket.
func FinalFileName(o types.Order) string {
	name := o.PatientLastName + ", " + o.PatientFirstName
	return SanitizeName(name) + " delivery ticket " + FormatDateForFileName(o.Date) + ".pdf"
}
