package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and name the specific problem.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoFilingURL is returned when no filing URL is specified.
	ErrNoFilingURL = errors.New("no filing URL specified: pass the filing's root page as an argument")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidFetchDelay is returned when the fetch delay is negative.
	// Use 0 for no delay between exhibit page fetches.
	ErrInvalidFetchDelay = errors.New("invalid fetch delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoMarkerPhrase is returned when the marker phrase is empty.
	// Without a marker phrase every anchor on the root page would qualify.
	ErrNoMarkerPhrase = errors.New("no marker phrase specified")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be active.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
