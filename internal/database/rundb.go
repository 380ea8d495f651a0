package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/exhibitfetch/internal/model"
)

// RunDB provides SQLite-based storage for fetch run history.
//
// Design decision: We use a single database file for all filings rather
// than one file per filing. This keeps "history" queries across filings
// trivial and simplifies backup/restore operations.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "exhibitfetch.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per scan-and-fetch invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filing_url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		exhibits INTEGER NOT NULL,
		downloaded INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		duplicates INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		missed INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_filing ON runs(filing_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Documents store one row per file a run wrote or verified
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		exhibit_url TEXT NOT NULL,
		pdf_url TEXT NOT NULL,
		title TEXT,
		path TEXT,
		size INTEGER,
		document_id TEXT,
		outcome TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
	CREATE INDEX IF NOT EXISTS idx_documents_pdf ON documents(pdf_url);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun persists a completed run and its per-document results.
// Returns the database ID of the stored run.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (filing_url, started_at, finished_at, exhibits, downloaded, skipped, duplicates, failed, missed, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.FilingURL,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		len(report.Exhibits),
		report.Downloaded(),
		report.Skipped(),
		report.Duplicates(),
		report.Failed(),
		report.Missed(),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, res := range report.Results {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (run_id, exhibit_url, pdf_url, title, path, size, document_id, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			res.ExhibitURL,
			res.PDFURL,
			res.Title,
			res.Path,
			res.Size,
			res.DocumentID,
			res.Outcome.String(),
		); err != nil {
			return 0, fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RunSummary contains summary information about a stored run.
// This is used for displaying history without loading the full report.
type RunSummary struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// FilingURL is the filing the run scanned.
	FilingURL string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Exhibits is the number of exhibit pages the scan found.
	Exhibits int

	// Downloaded is the number of files transferred.
	Downloaded int

	// Skipped is the number of size-identical files left untouched.
	Skipped int

	// Failed is the number of failed transfers.
	Failed int

	// Missed is the number of exhibit pages with no resolvable document.
	Missed int
}

// ListRuns returns summaries of stored runs, newest first.
// An empty filingURL lists runs for all filings.
func (rdb *RunDB) ListRuns(ctx context.Context, filingURL string, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, filing_url, started_at, exhibits, downloaded, skipped, failed, missed
	FROM runs
	`
	args := make([]any, 0, 2)

	if filingURL != "" {
		query += " WHERE filing_url = ?"
		args = append(args, filingURL)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var s RunSummary
		var startedAt string

		if err := rows.Scan(&s.ID, &s.FilingURL, &startedAt, &s.Exhibits, &s.Downloaded, &s.Skipped, &s.Failed, &s.Missed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		s.StartedAt = parseTimestamp(startedAt)
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetRunReport retrieves the full stored report for a run by its database ID.
// Returns nil without error when no run has that ID.
func (rdb *RunDB) GetRunReport(ctx context.Context, id int64) (*model.RunReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE id = ?
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListFilings returns the distinct filing URLs with stored runs.
func (rdb *RunDB) ListFilings(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT filing_url FROM runs
	ORDER BY filing_url
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list filings: %w", err)
	}
	defer rows.Close()

	var filings []string
	for rows.Next() {
		var filing string
		if err := rows.Scan(&filing); err != nil {
			return nil, fmt.Errorf("failed to scan filing: %w", err)
		}
		filings = append(filings, filing)
	}

	return filings, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
