package model

import (
	"testing"
	"time"
)

// TestRunReport tests outcome counting on the run report.
func TestRunReport(t *testing.T) {
	t.Parallel()

	t.Run("counts outcomes", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("https://fccid.io/BCG-E8726A")
		r.AddResult(DownloadResult{Outcome: OutcomeDownloaded})
		r.AddResult(DownloadResult{Outcome: OutcomeDownloaded})
		r.AddResult(DownloadResult{Outcome: OutcomeSkipped})
		r.AddResult(DownloadResult{Outcome: OutcomeDuplicate})
		r.AddResult(DownloadResult{Outcome: OutcomeFailed})

		if got := r.Downloaded(); got != 2 {
			t.Errorf("Downloaded() = %d, want 2", got)
		}
		if got := r.Skipped(); got != 1 {
			t.Errorf("Skipped() = %d, want 1", got)
		}
		if got := r.Duplicates(); got != 1 {
			t.Errorf("Duplicates() = %d, want 1", got)
		}
		if got := r.Failed(); got != 1 {
			t.Errorf("Failed() = %d, want 1", got)
		}
	})

	t.Run("misses are derived from the error list", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("https://fccid.io/BCG-E8726A")
		r.AddError("https://fccid.io/BCG-E8726A/a", MissMessage)
		r.AddError("https://fccid.io/BCG-E8726A/b", "fetch https://...: HTTP 500")
		r.AddError("https://fccid.io/BCG-E8726A/c", MissMessage)

		if got := r.Missed(); got != 2 {
			t.Errorf("Missed() = %d, want 2", got)
		}
	})

	t.Run("duration spans start to finish", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("https://fccid.io/BCG-E8726A")
		r.FinishedAt = r.StartedAt.Add(3 * time.Second)

		if got := r.Duration(); got != 3*time.Second {
			t.Errorf("Duration() = %s, want 3s", got)
		}
	})
}

// TestDownloadOutcomeString tests outcome names.
func TestDownloadOutcomeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome DownloadOutcome
		want    string
	}{
		{OutcomeDownloaded, "downloaded"},
		{OutcomeSkipped, "skipped"},
		{OutcomeDuplicate, "duplicate"},
		{OutcomeFailed, "failed"},
		{DownloadOutcome(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
