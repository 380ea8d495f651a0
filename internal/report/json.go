package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/exhibitfetch/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is the tool version embedded in the output, if set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion embeds the tool version in the JSON output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps the run report with output-level metadata.
//
// Design decision: We wrap the report rather than modifying RunReport
// because this allows us to add output-specific fields without polluting
// the core data structure.
type JSONReport struct {
	// Version is the exhibitfetch version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the full run report.
	Report *model.RunReport `json:"report"`

	// Summary holds the outcome counts for quick access.
	Summary JSONSummary `json:"summary"`
}

// JSONSummary holds the per-outcome counts of a run.
type JSONSummary struct {
	Exhibits   int `json:"exhibits"`
	Downloaded int `json:"downloaded"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Missed     int `json:"missed"`
	Failed     int `json:"failed"`
}

// Write outputs the run report in JSON format.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	wrapped := JSONReport{
		Version: w.version,
		Report:  report,
		Summary: JSONSummary{
			Exhibits:   len(report.Exhibits),
			Downloaded: report.Downloaded(),
			Skipped:    report.Skipped(),
			Duplicates: report.Duplicates(),
			Missed:     report.Missed(),
			Failed:     report.Failed(),
		},
	}

	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(wrapped, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(wrapped)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
