// =============================================================================
// TSV to PDF Ticket Generator - Rendering Pipeline
// =============================================================================
//
// This module orchestrates the renderer over a full set of grouped orders.
//
// PREVIEW MODE:
//   Each order renders to a temporary artifact. Fractional progress
//   (completed/total * 100) is reported after every item, and the artifacts
//   come back paired with their source order and routing email so a caller
//   can drop entries before finalization.
//
// FINAL MODE:
//   Each order re-renders (independently of any preview) into a destination
//   chosen by routing policy: orders with a non-empty email land under the
//   "emailed" sub-destination, the rest under "mailed".
//
// CONCURRENCY:
//   Preview batches can run on a single background goroutine (Start) that
//   communicates with the caller only through a progress channel and a
//   completion channel. A batch is not cancelable mid-flight: it runs to
//   completion or aborts on the first fatal error.
//
// =============================================================================

package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/renderer"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// Logger is the pipeline's logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// slogLogger adapts the process-wide slog default to the Logger interface.
type slogLogger struct{}

func (slogLogger) Debug(msg string, args ...any) { slog.Debug(fmt.Sprintf(msg, args...)) }
func (slogLogger) Info(msg string, args ...any)  { slog.Info(fmt.Sprintf(msg, args...)) }
func (slogLogger) Warn(msg string, args ...any)  { slog.Warn(fmt.Sprintf(msg, args...)) }
func (slogLogger) Error(msg string, args ...any) { slog.Error(fmt.Sprintf(msg, args...)) }

// Options configures a Pipeline. Zero values pick sensible defaults.
type Options struct {
	// PreviewDir receives temporary preview artifacts. Defaults to the
	// system temp directory.
	PreviewDir string

	// EmailedSubdir and MailedSubdir are the routing sub-destinations under
	// the finals destination root. Default "emailed" and "mailed".
	EmailedSubdir string
	MailedSubdir  string

	Logger Logger
}

// Pipeline drives a Renderer over grouped orders.
type Pipeline struct {
	renderer     renderer.Renderer
	templatePath string
	opts         Options
}

// New builds a Pipeline for the given renderer and form template.
func New(r renderer.Renderer, templatePath string, opts Options) *Pipeline {
	if opts.PreviewDir == "" {
		opts.PreviewDir = os.TempDir()
	}
	if opts.EmailedSubdir == "" {
		opts.EmailedSubdir = "emailed"
	}
	if opts.MailedSubdir == "" {
		opts.MailedSubdir = "mailed"
	}
	if opts.Logger == nil {
		opts.Logger = slogLogger{}
	}
	return &Pipeline{renderer: r, templatePath: templatePath, opts: opts}
}

// Stats summarizes one rendering pass.
type Stats struct {
	Total    int
	Rendered int
	Skipped  int
	Emailed  int
	Mailed   int
}

// RenderPreviews renders every order to a temporary artifact and returns the
// artifacts paired with their source orders and routing emails.
//
// Orders failing pre-render validation are skipped and reported via the log,
// never fatal. Any other render failure aborts the batch. The progress
// callback, when non-nil, receives completed/total*100 after each order.
func (p *Pipeline) RenderPreviews(orders []types.Order, progress func(float64)) ([]types.RenderedTicket, error) {
	if err := os.MkdirAll(p.opts.PreviewDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	tickets := make([]types.RenderedTicket, 0, len(orders))
	total := len(orders)

	for i, order := range orders {
		outPath := filepath.Join(p.opts.PreviewDir, fmt.Sprintf("preview_%d.pdf", i))

		err := p.renderer.Render(order, p.templatePath, outPath)
		var verr *renderer.ValidationError
		switch {
		case errors.As(err, &verr):
			p.opts.Logger.Warn("skipping order: %v", verr)
		case err != nil:
			return nil, fmt.Errorf("preview batch aborted at order %d: %w", i+1, err)
		default:
			tickets = append(tickets, types.RenderedTicket{
				Path:  outPath,
				Order: order,
				Email: order.EmailAddress,
			})
		}

		if progress != nil {
			progress(float64(i+1) / float64(total) * 100)
		}
	}

	return tickets, nil
}

// Batch carries the outcome of a background preview run.
type Batch struct {
	Tickets []types.RenderedTicket
	Err     error
}

// Start runs RenderPreviews on one background goroutine. The caller's
// foreground stays responsive by draining the progress channel; the
// completion channel delivers exactly one Batch and both channels are closed
// afterwards. No state is shared across the boundary except through these
// two channels.
func (p *Pipeline) Start(orders []types.Order) (<-chan float64, <-chan Batch) {
	progressCh := make(chan float64, len(orders))
	doneCh := make(chan Batch, 1)

	go func() {
		defer close(doneCh)
		defer close(progressCh)

		tickets, err := p.RenderPreviews(orders, func(pct float64) {
			progressCh <- pct
		})
		doneCh <- Batch{Tickets: tickets, Err: err}
	}()

	return progressCh, doneCh
}

// RenderFinals renders every order into its routed destination under
// destRoot. Output names derive from the sanitized patient name and the
// reformatted date; colliding names silently overwrite.
func (p *Pipeline) RenderFinals(orders []types.Order, destRoot string) (Stats, error) {
	stats := Stats{Total: len(orders)}

	for _, order := range orders {
		subdir := p.opts.MailedSubdir
		if order.EmailAddress != "" {
			subdir = p.opts.EmailedSubdir
		}
		folder := filepath.Join(destRoot, subdir)
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return stats, fmt.Errorf("failed to create destination %s: %w", folder, err)
		}

		outPath := filepath.Join(folder, FinalFileName(order))

		err := p.renderer.Render(order, p.templatePath, outPath)
		var verr *renderer.ValidationError
		switch {
		case errors.As(err, &verr):
			stats.Skipped++
			p.opts.Logger.Warn("skipping order: %v", verr)
			continue
		case err != nil:
			return stats, fmt.Errorf("final rendering aborted: %w", err)
		}

		stats.Rendered++
		if order.EmailAddress != "" {
			stats.Emailed++
		} else {
			stats.Mailed++
		}
		p.opts.Logger.Debug("wrote ticket: %s", outPath)
	}

	return stats, nil
}
