package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where a default mirrors the behavior of
// the regulatory document host it targets, the comment says why.
const (
	// DefaultUserAgent identifies exhibitfetch in HTTP requests.
	// A descriptive, version-stamped User-Agent is good practice and allows
	// host operators to identify scraper traffic in their logs.
	DefaultUserAgent = "exhibitfetch/1.1"

	// DefaultTimeout is the per-request timeout for page fetches.
	// Filing pages are small; 30 seconds is generous for a clearnet host.
	DefaultTimeout = 30 * time.Second

	// DefaultFetchDelay is the fixed delay before each exhibit page fetch.
	// This is a politeness setting to avoid hammering the document host.
	// There is deliberately no adaptive backoff.
	DefaultFetchDelay = 400 * time.Millisecond

	// DefaultOutputDir is where downloaded documents are written.
	DefaultOutputDir = "fcc_exhibits"

	// DefaultMaxBodySize limits the size of HTML page bodies to read.
	// 5MB is far beyond any real filing page while preventing memory
	// exhaustion from unexpected responses. Binary downloads are streamed
	// and are not subject to this limit.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultChunkSize is the write granularity for streamed downloads.
	DefaultChunkSize = 64 * 1024 // 64KB

	// DefaultMaxSlugLen is the maximum length of a derived filename slug.
	DefaultMaxSlugLen = 120

	// DefaultMarkerPhrase is the text searched for near an anchor to decide
	// that the anchor leads to a PDF exhibit. Matched case-insensitively.
	DefaultMarkerPhrase = "adobe acrobat pdf"

	// AppName is the application name used for XDG directory paths.
	AppName = "exhibitfetch"
)

// Config holds all options for one exhibitfetch run.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// FilingURL is the root page of the filing to scan.
	FilingURL string

	// OutputDir is the directory downloaded documents are written to.
	// Created if absent.
	OutputDir string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Timeout is the per-request timeout for page fetches.
	Timeout time.Duration

	// FetchDelay is the fixed delay before each exhibit page fetch.
	FetchDelay time.Duration

	// MaxBodySize caps the bytes read from an HTML page response.
	MaxBodySize int64

	// MarkerPhrase is the case-insensitive text that marks an exhibit
	// anchor as leading to a PDF.
	MarkerPhrase string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// DryRun lists discovered exhibits without fetching or downloading them.
	DryRun bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .exhibitfetch in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// FilingConfigs holds per-filing overrides loaded from the config file.
	FilingConfigs *File

	// JSONReport enables JSON report output instead of human-readable text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the run report.
	// When empty the report is written to stdout.
	ReportFile string

	// DBDir is the directory for the run-history SQLite database.
	// When empty, run history is not recorded.
	DBDir string

	// SaveToDB indicates whether to record the run in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero (timeout, delay, marker phrase).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		UserAgent:    DefaultUserAgent,
		Timeout:      DefaultTimeout,
		FetchDelay:   DefaultFetchDelay,
		MaxBodySize:  DefaultMaxBodySize,
		MarkerPhrase: DefaultMarkerPhrase,
	}
}

// XDGDataDir returns the XDG data directory for exhibitfetch.
// On Linux: ~/.local/share/exhibitfetch
// On macOS: ~/Library/Application Support/exhibitfetch
// On Windows: %LOCALAPPDATA%\exhibitfetch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for exhibitfetch.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any fetching begins.
func (c *Config) Validate() error {
	if c.FilingURL == "" {
		return ErrNoFilingURL
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.FetchDelay < 0 {
		return ErrInvalidFetchDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MarkerPhrase == "" {
		return ErrNoMarkerPhrase
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
