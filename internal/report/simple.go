package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/exhibitfetch/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-exhibit detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-exhibit details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	if w.verbose {
		w.writeResults(&sb, report)
	}
	w.writeErrors(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       EXHIBITFETCH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Filing:     %s\n", report.FilingURL))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", report.Duration().Round(10*time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Exhibits:   %d\n", len(report.Exhibits)))
	sb.WriteString("\n")
}

// writeSummary writes the outcome summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  DOWNLOADED: %d\n", report.Downloaded()))
	sb.WriteString(fmt.Sprintf("  UP TO DATE: %d\n", report.Skipped()))
	sb.WriteString(fmt.Sprintf("  DUPLICATES: %d\n", report.Duplicates()))
	sb.WriteString(fmt.Sprintf("  MISSED:     %d\n", report.Missed()))
	sb.WriteString(fmt.Sprintf("  FAILED:     %d\n", report.Failed()))
	sb.WriteString("\n")
}

// writeResults writes one line per download result.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.RunReport) {
	if len(report.Results) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DOCUMENTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, res := range report.Results {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", res.Outcome.String(), res.PDFURL))
		if res.Path != "" {
			sb.WriteString(fmt.Sprintf("    Path: %s\n", res.Path))
		}
		if res.Size > 0 {
			sb.WriteString(fmt.Sprintf("    Size: %d bytes\n", res.Size))
		}
	}
	sb.WriteString("\n")
}

// writeErrors writes per-exhibit failures, if any occurred.
func (w *SimpleWriter) writeErrors(sb *strings.Builder, report *model.RunReport) {
	if len(report.Errors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ERRORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, e := range report.Errors {
		sb.WriteString(fmt.Sprintf("  * %s\n", e.URL))
		sb.WriteString(fmt.Sprintf("    %s\n", e.Message))
	}
	sb.WriteString("\n")
}
