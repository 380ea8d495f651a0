package model

import "time"

// RunReport accumulates everything a single scan-and-fetch run produced.
// It is created once per run, passed through the pipeline steps, and
// rendered by the report writers afterwards.
//
// Design decision: Steps mutate a shared report rather than returning
// values because the pipeline executes heterogeneous steps in sequence
// and later steps (download) consume what earlier steps (scan) found.
type RunReport struct {
	// FilingURL is the root page of the filing that was scanned.
	FilingURL string `json:"filing_url"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finished_at"`

	// Exhibits are the candidate exhibit pages found on the root page,
	// de-duplicated by URL in first-seen order.
	Exhibits []ExhibitLink `json:"exhibits"`

	// Results holds one entry per exhibit that reached the download stage.
	Results []DownloadResult `json:"results,omitempty"`

	// Errors collects per-exhibit failures that did not stop the run.
	Errors []ItemError `json:"errors,omitempty"`

	// PerformedSteps names the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// ItemError is a non-fatal failure tied to one exhibit page.
type ItemError struct {
	// URL is the exhibit page the failure occurred on.
	URL string `json:"url"`

	// Message is the failure description.
	Message string `json:"message"`
}

// NewRunReport creates an empty report for the given filing URL.
func NewRunReport(filingURL string) *RunReport {
	return &RunReport{
		FilingURL: filingURL,
		StartedAt: time.Now(),
	}
}

// AddResult appends a download result.
func (r *RunReport) AddResult(res DownloadResult) {
	r.Results = append(r.Results, res)
}

// AddError records a non-fatal per-exhibit failure.
func (r *RunReport) AddError(url, message string) {
	r.Errors = append(r.Errors, ItemError{URL: url, Message: message})
}

// Downloaded returns the number of files actually transferred.
func (r *RunReport) Downloaded() int { return r.countOutcome(OutcomeDownloaded) }

// Skipped returns the number of size-identical files that were not re-fetched.
func (r *RunReport) Skipped() int { return r.countOutcome(OutcomeSkipped) }

// Duplicates returns the number of URLs seen via more than one exhibit page.
func (r *RunReport) Duplicates() int { return r.countOutcome(OutcomeDuplicate) }

// Failed returns the number of failed transfers.
func (r *RunReport) Failed() int { return r.countOutcome(OutcomeFailed) }

// Missed returns the number of exhibit pages on which no document URL
// could be resolved. Misses are recorded as Errors, not Results, so this
// is derived from the error list.
func (r *RunReport) Missed() int {
	n := 0
	for _, e := range r.Errors {
		if e.Message == MissMessage {
			n++
		}
	}
	return n
}

// MissMessage is the error message recorded for a resolution miss.
// Kept as a constant so Missed() can distinguish misses from fetch errors.
const MissMessage = "no document link found"

// Duration returns the wall-clock duration of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *RunReport) countOutcome(o DownloadOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
