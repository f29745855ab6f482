// =============================================================================
// TSV to PDF Ticket Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - normalizer
//   - grouper
//   - renderer
//   - pipeline
//
// All types are treated as immutable after construction. The normalizer
// creates LineItems and MemoLines once, the grouper builds Orders from them,
// and the renderer produces a fresh RenderedTicket per render call.
//
// =============================================================================

package types

// KeyFieldCount is the number of leading fields that identify an order.
// Two line items belong to the same physical delivery iff these fields are
// pairwise equal. Quantity, code, description and SKU are item-level fields
// and are excluded.
const KeyFieldCount = 11

// LineItem represents one billed product/service occurrence parsed from the
// export. Multi-item orders appear as multiple LineItems sharing identical
// key fields; each LineItem carries exactly one code/description/SKU/quantity.
type LineItem struct {
	// Key fields (shared across all items of one order).
	Date                 string // MM/DD/YYYY, kept verbatim
	PatientFirstName     string
	PatientMiddleInitial string
	PatientLastName      string
	AccountNum           string
	StreetAddress        string
	City                 string
	State                string
	Zip                  string
	Telephone            string
	EmailAddress         string // empty when the customer has no email on file

	// Item fields (one entry per LineItem).

	// Quantity is the whole-unit quantity. Decimal export values such as
	// "4.00" are truncated to 4 during normalization.
	Quantity int

	// RawQuantity preserves the quantity exactly as exported. The renderer
	// falls back to it when the parsed value cannot be trusted.
	RawQuantity string

	// HCode is the HCPCS/billing code: the first whitespace-delimited token
	// of the export's category column.
	HCode string

	CodeDescription string
	ICode           string // inventory/SKU code
}

// Key returns the order-identifying prefix of the line item.
func (li LineItem) Key() [KeyFieldCount]string {
	return [KeyFieldCount]string{
		li.Date,
		li.PatientFirstName,
		li.PatientMiddleInitial,
		li.PatientLastName,
		li.AccountNum,
		li.StreetAddress,
		li.City,
		li.State,
		li.Zip,
		li.Telephone,
		li.EmailAddress,
	}
}

// SameOrder reports whether two line items belong to the same physical order.
func (li LineItem) SameOrder(other LineItem) bool {
	return li.Key() == other.Key()
}

// MemoLine is an annotation row from the export: no quantity, no product
// code, no SKU, but a non-empty description. Memos are carried separately
// and never merged into an order or rendered.
type MemoLine struct {
	Date        string
	Description string

	// SourceRow is the physical row number in the input file, for reporting.
	SourceRow int
}

// Order is one or more LineItems sharing identical key fields, merged for a
// single physical delivery ticket. The four parallel sequences are
// index-aligned and ordered by input encounter order; all have equal length.
type Order struct {
	Date                 string
	PatientFirstName     string
	PatientMiddleInitial string
	PatientLastName      string
	AccountNum           string
	StreetAddress        string
	City                 string
	State                string
	Zip                  string
	Telephone            string
	EmailAddress         string

	Units            []int
	RawUnits         []string
	HCodes           []string
	CodeDescriptions []string
	ICodes           []string
}

// ItemCount returns the number of line items merged into the order.
func (o Order) ItemCount() int {
	return len(o.Units)
}

// RenderedTicket binds an Order to a generated document path plus the email
// used downstream to route delivery. Immutable once produced; regenerating a
// ticket produces a new value rather than mutating this one.
type RenderedTicket struct {
	Path  string
	Order Order
	Email string
}
