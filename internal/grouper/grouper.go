// =============================================================================
// TSV to PDF Ticket Generator - Order Grouper
// =============================================================================
//
// This module merges line items that belong to the same physical order into
// one Order record. Two items belong together iff their key-field prefixes
// (date, name, account, address, phone, email) are pairwise equal AND the
// items are adjacent in the caller-sorted sequence. Equality is never checked
// across non-adjacent rows, so callers must sort line items such that records
// of the same order are contiguous before grouping.
//
// =============================================================================

package grouper

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// SortForGrouping sorts line items by patient last name then first name,
// case-insensitive, preserving input order within equal keys. This is the
// contiguity guarantee Group relies on.
func SortForGrouping(items []types.LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		li, lj := strings.ToLower(items[i].PatientLastName), strings.ToLower(items[j].PatientLastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(items[i].PatientFirstName) < strings.ToLower(items[j].PatientFirstName)
	})
}

// Group merges adjacent line items with equal key prefixes into Orders.
//
// Single forward scan with a look-ahead cursor: the group anchored at item i
// absorbs every following item j while the key prefixes match; when the run
// ends, the group closes and a new one starts at j. A singleton run still
// produces a valid one-element Order. The relative order of first occurrence
// is preserved, and the four parallel sequences of every Order follow the
// input encounter order.
func Group(items []types.LineItem) []types.Order {
	var orders []types.Order

	i := 0
	for i < len(items) {
		anchor := items[i]
		order := types.Order{
			Date:                 anchor.Date,
			PatientFirstName:     anchor.PatientFirstName,
			PatientMiddleInitial: anchor.PatientMiddleInitial,
			PatientLastName:      anchor.PatientLastName,
			AccountNum:           anchor.AccountNum,
			StreetAddress:        anchor.StreetAddress,
			City:                 anchor.City,
			State:                anchor.State,
			Zip:                  anchor.Zip,
			Telephone:            anchor.Telephone,
			EmailAddress:         anchor.EmailAddress,
		}

		j := i
		for j < len(items) && anchor.SameOrder(items[j]) {
			order.Units = append(order.Units, items[j].Quantity)
			order.RawUnits = append(order.RawUnits, items[j].RawQuantity)
			order.HCodes = append(order.HCodes, items[j].HCode)
			order.CodeDescriptions = append(order.CodeDescriptions, items[j].CodeDescription)
			order.ICodes = append(order.ICodes, items[j].ICode)
			j++
		}

		orders = append(orders, order)
		i = j
	}

	return orders
}
