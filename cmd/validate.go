// =============================================================================
// TSV to PDF Ticket Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command: parse and group an export
// without rendering anything. Useful for checking a fresh QuickBooks report
// before committing to a full run.
//
// COMMAND USAGE:
//   ticketgen validate --file export.tsv
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/grouper"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/normalizer"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/renderer"
)

// validateFile is the export to check.
var validateFile string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and group an export without rendering",
	Long: `The validate command runs the normalizer and grouper over an export and
reports what a full run would produce: line item, memo and order counts, plus
any orders that would be skipped for missing required fields. No PDFs are
written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(
		&validateFile,
		"file",
		"",
		"Path to the export to validate",
	)
	validateCmd.MarkFlagRequired("file")
}

func runValidate() error {
	if _, err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	res, err := normalizer.Normalize(validateFile)
	if err != nil {
		return err
	}

	grouper.SortForGrouping(res.Items)
	orders := grouper.Group(res.Items)

	fmt.Printf("=== Validation: %s ===\n", validateFile)
	fmt.Printf("Rows read:          %d\n", res.RowsRead)
	fmt.Printf("Line items:         %d\n", len(res.Items))
	fmt.Printf("Memos:              %d\n", len(res.Memos))
	fmt.Printf("Duplicates dropped: %d\n", res.DuplicatesDropped)
	fmt.Printf("Invalid dropped:    %d\n", res.InvalidDropped)
	fmt.Printf("Orders:             %d\n", len(orders))

	skipped := 0
	for _, o := range orders {
		if verr := renderer.ValidateOrder(o); verr != nil {
			skipped++
			fmt.Printf("  would skip: %v\n", verr)
		}
	}
	fmt.Printf("Renderable:         %d\n", len(orders)-skipped)

	if len(res.Memos) > 0 {
		fmt.Println("\nMemo annotations (never rendered):")
		for _, m := range res.Memos {
			fmt.Printf("  row %d: %s\n", m.SourceRow, m.Description)
		}
	}
	return nil
}
