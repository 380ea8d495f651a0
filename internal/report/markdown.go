package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/exhibitfetch/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeDocuments(md, report)
	w.writeErrors(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Exhibit Fetch Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Filing", "`" + report.FilingURL + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Exhibits Found", strconv.Itoa(len(report.Exhibits))},
		},
	})
	md.PlainText("")
}

// writeSummary writes the outcome summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Downloaded", strconv.Itoa(report.Downloaded())},
			{"Up To Date", strconv.Itoa(report.Skipped())},
			{"Duplicates", strconv.Itoa(report.Duplicates())},
			{"Missed", strconv.Itoa(report.Missed())},
			{"Failed", strconv.Itoa(report.Failed())},
		},
	})
	md.PlainText("")

	if len(report.Results) > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Download Outcomes"),
		piechart.WithShowData(true),
	)

	if n := report.Downloaded(); n > 0 {
		chart.LabelAndIntValue("Downloaded", uint64(n))
	}
	if n := report.Skipped(); n > 0 {
		chart.LabelAndIntValue("Up To Date", uint64(n))
	}
	if n := report.Duplicates(); n > 0 {
		chart.LabelAndIntValue("Duplicates", uint64(n))
	}
	if n := report.Missed(); n > 0 {
		chart.LabelAndIntValue("Missed", uint64(n))
	}
	if n := report.Failed(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run's outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case report.Failed() > 0:
		md.Cautionf(
			"%d download(s) failed. Re-running will retry them; completed files are skipped.",
			report.Failed(),
		)
	case report.Missed() > 0:
		md.Warningf(
			"%d exhibit page(s) had no resolvable document link.",
			report.Missed(),
		)
	case report.Downloaded() > 0:
		md.Tip("All resolved documents were downloaded successfully.")
	default:
		md.Note("Nothing to download; local files are up to date.")
	}
	md.PlainText("")
}

// writeDocuments writes a table of per-document results.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Documents")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No documents were resolved.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Results))
	for i, res := range report.Results {
		size := "-"
		if res.Size > 0 {
			size = strconv.FormatInt(res.Size, 10)
		}
		path := res.Path
		if path == "" {
			path = "-"
		}

		rows[i] = []string{
			truncateString(res.Title, 40),
			truncateString(res.PDFURL, 60),
			truncateString(path, 40),
			size,
			res.Outcome.String(),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Document URL", "Path", "Size", "Outcome"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeErrors writes the per-exhibit failure list, if any.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Errors) == 0 {
		return
	}

	md.H2("Errors")
	md.PlainText("")

	items := make([]string, len(report.Errors))
	for i, e := range report.Errors {
		items[i] = e.URL + ": " + e.Message
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [exhibitfetch](https://github.com/nao1215/exhibitfetch)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
