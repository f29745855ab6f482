// =============================================================================
// TSV to PDF Ticket Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the full pipeline for
// one or more billing exports.
//
// COMMAND USAGE:
//   ticketgen process [flags]
//
// FLAGS:
//   --file          : Process a single export instead of scanning the input dir
//   --output        : Override the configured output directory
//   --previews-only : Stop after preview generation and list the artifacts
//   --no-archive    : Leave processed exports in place
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Normalize the export into line items and memos
//   3. Sort line items and group them into orders
//   4. Render previews on a background worker, driving a progress readout
//   5. Render final tickets routed into emailed/mailed destinations
//   6. Archive the export and write a run report
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/config"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/grouper"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/normalizer"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/pipeline"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/renderer"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/pkg/utils"
)

// filePath is the path to a specific export to process.
var filePath string

// outputOverride replaces the configured output directory when set.
var outputOverride string

// previewsOnly stops after preview generation.
var previewsOnly bool

// noArchive leaves processed exports in the input directory.
var noArchive bool

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate delivery tickets from billing exports",
	Long: `The process command normalizes a billing export, groups line items that
belong to the same physical order, and renders one filled, flattened PDF
delivery ticket per order.

Preview artifacts are generated first on a background worker while a progress
readout runs in the foreground. Final tickets are then rendered independently
of the previews: orders with an email address land under the "emailed"
sub-destination, the rest under "mailed".

On successful processing the export is moved to the input archive and a run
report is written to the output directory. Orders missing required fields are
skipped and reported; they never abort the run.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific export to process (default: scan the input directory)",
	)

	processCmd.Flags().StringVar(
		&outputOverride,
		"output",
		"",
		"Destination root for final tickets (default: from config)",
	)

	processCmd.Flags().BoolVar(
		&previewsOnly,
		"previews-only",
		false,
		"Stop after preview generation and list the preview artifacts",
	)

	processCmd.Flags().BoolVar(
		&noArchive,
		"no-archive",
		false,
		"Leave processed exports in the input directory",
	)
}

// runProcess orchestrates the pipeline across the selected exports.
func runProcess() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	outputDir := cfg.OutputDir
	if outputOverride != "" {
		outputDir = outputOverride
	}

	fm := utils.NewFileManager(cfg.InputDir, outputDir, cfg.InputArchiveDir)
	fm.ArchiveOnSuccess = !noArchive
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = fm.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}
	if len(inputFiles) == 0 {
		fmt.Println("No billing exports found in the input directory.")
		return nil
	}

	for _, input := range inputFiles {
		if err := processExport(cfg, fm, input, outputDir); err != nil {
			return err
		}
	}
	return nil
}

// processExport runs the full pipeline for one export file.
func processExport(cfg *config.MainConfig, fm *utils.FileManager, input, outputDir string) error {
	startTime := time.Now()
	fmt.Printf("=== Processing %s ===\n", input)

	res, err := normalizer.Normalize(input)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d line item(s), %d memo(s)\n", len(res.Items), len(res.Memos))

	grouper.SortForGrouping(res.Items)
	orders := grouper.Group(res.Items)
	fmt.Printf("Grouped into %d order(s)\n", len(orders))

	r := renderer.NewPDFRenderer(renderer.CheckboxStamp{
		Enabled: cfg.CheckboxMark.Enabled,
		Glyph:   cfg.CheckboxMark.Glyph,
		Page:    cfg.CheckboxMark.Page,
		OffsetX: cfg.CheckboxMark.OffsetX,
		OffsetY: cfg.CheckboxMark.OffsetY,
		Points:  cfg.CheckboxMark.Points,
	})
	pipe := pipeline.New(r, cfg.TemplatePath, pipeline.Options{
		PreviewDir:    cfg.PreviewDir,
		EmailedSubdir: cfg.EmailedSubdir,
		MailedSubdir:  cfg.MailedSubdir,
	})

	// Previews run on a background worker; the foreground drains the
	// progress channel to keep the readout live.
	tickets, err := runPreviewBatch(pipe, orders)
	if err != nil {
		return err
	}

	if previewsOnly {
		fmt.Println("Preview artifacts:")
		for _, t := range tickets {
			fmt.Printf("  %s (%s, %s)\n", t.Path, t.Order.PatientLastName, routeLabel(t.Email))
		}
		return nil
	}

	stats, err := pipe.RenderFinals(orders, outputDir)
	if err != nil {
		return err
	}

	report := utils.RunReport{
		SourceFile: input,
		StartedAt:  startTime,
		RowsRead:   res.RowsRead,
		LineItems:  len(res.Items),
		Memos:      len(res.Memos),
		Orders:     len(orders),
		Rendered:   stats.Rendered,
		Skipped:    stats.Skipped,
		Emailed:    stats.Emailed,
		Mailed:     stats.Mailed,
	}
	for _, m := range res.Memos {
		report.MemoLines = append(report.MemoLines, fmt.Sprintf("row %d: %s", m.SourceRow, m.Description))
	}
	if reportPath, err := utils.WriteRunReport(report, outputDir); err == nil {
		fmt.Printf("Run report: %s\n", reportPath)
	}

	if _, err := fm.ArchiveInputFile(input); err != nil {
		// Archival failure is not worth failing the run over.
		fmt.Printf("Warning: failed to archive %s: %v\n", input, err)
	}

	fmt.Printf("\n=== Processing Complete ===\n")
	fmt.Printf("Orders:          %d\n", stats.Total)
	fmt.Printf("Rendered:        %d (emailed %d, mailed %d)\n", stats.Rendered, stats.Emailed, stats.Mailed)
	fmt.Printf("Skipped:         %d\n", stats.Skipped)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))
	return nil
}

// runPreviewBatch drives the background preview worker and renders a
// percentage readout until the completion signal arrives.
func runPreviewBatch(pipe *pipeline.Pipeline, orders []types.Order) ([]types.RenderedTicket, error) {
	progressCh, doneCh := pipe.Start(orders)

	for pct := range progressCh {
		fmt.Printf("\rGenerating previews... %3.0f%%", pct)
	}
	fmt.Println()

	batch := <-doneCh
	if batch.Err != nil {
		return nil, batch.Err
	}
	return batch.Tickets, nil
}

func routeLabel(email string) string {
	if email == "" {
		return "mailed"
	}
	return "emailed"
}
