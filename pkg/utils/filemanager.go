// =============================================================================
// TSV to PDF Ticket Generator - File Manager Utility
// =============================================================================
//
// File management utilities for the ticket generator:
//   - Input export discovery
//   - Archival of processed exports
//   - Run report generation
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Input exports move to input_archive after successful processing.
//   - Failed exports remain in their original location.
//   - Run reports are created in the output directory with uuid-stamped
//     names so consecutive runs never clobber each other.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// inputExtensions are the export shapes the normalizer accepts.
var inputExtensions = map[string]bool{
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
}

// FileManager handles file operations for the ticket generator.
type FileManager struct {
	// InputDir is the directory scanned for billing exports.
	InputDir string

	// OutputDir is the destination root for final tickets and run reports.
	OutputDir string

	// InputArchiveDir receives processed exports.
	InputArchiveDir string

	// ArchiveOnSuccess determines whether exports are archived after
	// successful processing.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: true,
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.InputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DiscoverInputFiles scans the input directory for billing exports.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(fm.InputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if inputExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// ArchiveInputFile moves a processed export into the input archive and
// returns the archived path.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	// Rename can fail across devices; fall back to copy and delete.
	if err := os.Rename(filePath, archivePath); err != nil {
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// RUN REPORT GENERATION
// =============================================================================

// RunReport summarizes one processing run for the operator.
type RunReport struct {
	SourceFile    string
	StartedAt     time.Time
	RowsRead      int
	LineItems     int
	Memos         int
	Orders        int
	Rendered      int
	Skipped       int
	Emailed       int
	Mailed        int
	SkippedOrders []string
	MemoLines     []string
}

// WriteRunReport writes the report into the output directory and returns
// the report path.
func WriteRunReport(report RunReport, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("run_%s_%s.log",
		report.StartedAt.Format("20060102_150405"), uuid.New().String()[:8])
	path := filepath.Join(outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create run report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "Ticket generation run %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Source file:   %s\n", report.SourceFile)
	fmt.Fprintf(w, "Rows read:     %d\n", report.RowsRead)
	fmt.Fprintf(w, "Line items:    %d\n", report.LineItems)
	fmt.Fprintf(w, "Memos:         %d\n", report.Memos)
	fmt.Fprintf(w, "Orders:        %d\n", report.Orders)
	fmt.Fprintf(w, "Rendered:      %d (emailed %d, mailed %d)\n", report.Rendered, report.Emailed, report.Mailed)
	fmt.Fprintf(w, "Skipped:       %d\n", report.Skipped)

	if len(report.SkippedOrders) > 0 {
		fmt.Fprintln(w, "\nSkipped orders:")
		for _, s := range report.SkippedOrders {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if len(report.MemoLines) > 0 {
		fmt.Fprintln(w, "\nMemo annotations (not rendered):")
		for _, m := range report.MemoLines {
			fmt.Fprintf(w, "  - %s\n", m)
		}
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}
	return path, nil
}

// copyFile copies src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
