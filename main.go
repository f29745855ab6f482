// =============================================================================
// TSV to PDF Ticket Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the delivery ticket generator CLI.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   ticketgen process       - Convert a billing export into filled ticket PDFs
//   ticketgen validate      - Parse and group an export without rendering
//   ticketgen fetch         - Fetch invoices from QuickBooks (requires OAuth tokens)
//   ticketgen sign          - Send a rendered ticket out for e-signature
//   ticketgen version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/TSV-to-PDF-conversion/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
