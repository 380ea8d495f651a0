package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/exhibitfetch/internal/config"
	"github.com/nao1215/exhibitfetch/internal/database"
	"github.com/nao1215/exhibitfetch/internal/log"
	"github.com/nao1215/exhibitfetch/internal/report"
)

// newFilingServer serves a complete filing: a root page listing
// exhibits, their sub-pages, and the documents themselves.
func newFilingServer(t *testing.T, pdfBody []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/BCG-E8726A", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><table>
			<tr><td><a href="/BCG-E8726A/Internal-Photos">Internal Photos</a></td>
			    <td>Adobe Acrobat PDF</td></tr>
			<tr><td><a href="/BCG-E8726A/Users-Manual">Users Manual</a></td>
			    <td>Adobe Acrobat PDF</td></tr>
			<tr><td><a href="/BCG-E8726A/Word-Doc">Word Doc</a></td>
			    <td>Microsoft Word</td></tr>
		</table></body></html>`)
	})
	mux.HandleFunc("/BCG-E8726A/Internal-Photos", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/pdfs/internal-photos-777.pdf">View PDF</a>
		</body></html>`)
	})
	mux.HandleFunc("/BCG-E8726A/Users-Manual", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/pdfs/users-manual-778.pdf">View PDF</a>
		</body></html>`)
	})
	mux.HandleFunc("/pdfs/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", fmt.Sprint(len(pdfBody)))
		if r.Method == http.MethodHead {
			return
		}
		w.Write(pdfBody) //nolint:errcheck
	})

	return httptest.NewServer(mux)
}

// newTestConfig builds a run configuration pointed at the test server
// with temp directories for output, run history, and the report file.
func newTestConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.FilingURL = serverURL + "/BCG-E8726A"
	cfg.OutputDir = t.TempDir()
	cfg.FetchDelay = 0
	cfg.FilingConfigs = &config.File{Filings: make(map[string]config.FilingConfig)}
	cfg.SaveToDB = true
	cfg.DBDir = t.TempDir()
	return cfg
}

// TestRunFetchEndToEnd exercises the full scan-resolve-download run
// against a local filing server.
func TestRunFetchEndToEnd(t *testing.T) {
	pdfBody := []byte("%PDF-1.4 test document body")
	logger := log.NewLogger(io.Discard, false)

	t.Run("downloads all exhibits and records the run", func(t *testing.T) {
		server := newFilingServer(t, pdfBody)
		defer server.Close()

		cfg := newTestConfig(t, server.URL)
		cfg.JSONReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "run.json")

		if err := runFetch(context.Background(), cfg, logger); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		// Both marked exhibits downloaded under their derived names
		for _, name := range []string{"Internal_Photos-777.pdf", "Users_Manual-778.pdf"} {
			got, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
			if err != nil {
				t.Fatalf("expected %s: %v", name, err)
			}
			if string(got) != string(pdfBody) {
				t.Errorf("unexpected content in %s", name)
			}
		}

		// JSON report written to the requested file
		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		var jr report.JSONReport
		if err := json.Unmarshal(data, &jr); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if jr.Summary.Downloaded != 2 {
			t.Errorf("expected 2 downloaded in report, got %d", jr.Summary.Downloaded)
		}

		// Run recorded in the history database
		db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), cfg.FilingURL, 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 recorded run, got %d", len(runs))
		}
		if runs[0].Downloaded != 2 {
			t.Errorf("expected 2 downloaded in history, got %d", runs[0].Downloaded)
		}
	})

	t.Run("second run skips documents already on disk", func(t *testing.T) {
		server := newFilingServer(t, pdfBody)
		defer server.Close()

		cfg := newTestConfig(t, server.URL)

		if err := runFetch(context.Background(), cfg, logger); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := runFetch(context.Background(), cfg, logger); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), "", 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 recorded runs, got %d", len(runs))
		}
		// ListRuns returns newest first
		if runs[0].Skipped != 2 {
			t.Errorf("expected 2 up-to-date in second run, got %d", runs[0].Skipped)
		}
		if runs[0].Downloaded != 0 {
			t.Errorf("expected 0 downloaded in second run, got %d", runs[0].Downloaded)
		}
	})

	t.Run("dry run downloads nothing", func(t *testing.T) {
		server := newFilingServer(t, pdfBody)
		defer server.Close()

		cfg := newTestConfig(t, server.URL)
		cfg.DryRun = true
		cfg.SaveToDB = false

		if err := runFetch(context.Background(), cfg, logger); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		entries, err := os.ReadDir(cfg.OutputDir)
		if err != nil {
			t.Fatalf("failed to read output dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty output dir, got %d entries", len(entries))
		}
	})

	t.Run("per-filing config overrides output directory", func(t *testing.T) {
		server := newFilingServer(t, pdfBody)
		defer server.Close()

		cfg := newTestConfig(t, server.URL)
		cfg.SaveToDB = false
		override := t.TempDir()
		cfg.FilingConfigs.Filings["BCG-E8726A"] = config.FilingConfig{OutputDir: override}

		if err := runFetch(context.Background(), cfg, logger); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(override, "Internal_Photos-777.pdf")); err != nil {
			t.Errorf("expected document in override dir: %v", err)
		}
	})
}

// TestOutputReport tests report format selection and file output.
func TestOutputReport(t *testing.T) {
	t.Run("writes markdown report to file", func(t *testing.T) {
		server := newFilingServer(t, []byte("%PDF-1.4"))
		defer server.Close()

		cfg := newTestConfig(t, server.URL)
		cfg.SaveToDB = false
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "run.md")

		logger := log.NewLogger(io.Discard, false)
		if err := runFetch(context.Background(), cfg, logger); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(data), "# Exhibit Fetch Report") {
			t.Error("expected markdown heading in report")
		}
	})
}
