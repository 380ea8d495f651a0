package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/exhibitfetch/internal/config"
	"github.com/nao1215/exhibitfetch/internal/download"
	"github.com/nao1215/exhibitfetch/internal/exhibit"
	"github.com/nao1215/exhibitfetch/internal/fetcher"
	"github.com/nao1215/exhibitfetch/internal/model"
)

// ScanStep fetches the filing's root page and collects exhibit links.
//
// Design decision: Scanning is a separate step because:
// 1. A failed root fetch is fatal, while download failures are per-item
// 2. Dry runs want the exhibit list without any transfers
// 3. The exhibit list is useful report output on its own
type ScanStep struct {
	// fetcher retrieves the root page.
	fetcher *fetcher.Fetcher

	// markerPhrase is the text that tags an anchor as a PDF exhibit.
	markerPhrase string

	// window bounds the marker lookahead after each anchor.
	window int

	// logger for structured logging.
	logger *slog.Logger
}

// ScanStepOption configures a ScanStep.
type ScanStepOption func(*ScanStep)

// WithScanMarkerPhrase sets the marker phrase matched near anchors.
func WithScanMarkerPhrase(phrase string) ScanStepOption {
	return func(s *ScanStep) {
		if phrase != "" {
			s.markerPhrase = phrase
		}
	}
}

// WithScanLookaheadWindow sets the marker lookahead window size.
func WithScanLookaheadWindow(window int) ScanStepOption {
	return func(s *ScanStep) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithScanLogger sets a custom logger for the scan step.
func WithScanLogger(logger *slog.Logger) ScanStepOption {
	return func(s *ScanStep) {
		s.logger = logger
	}
}

// NewScanStep creates a new scan step using the given fetcher.
func NewScanStep(f *fetcher.Fetcher, opts ...ScanStepOption) *ScanStep {
	s := &ScanStep{
		fetcher:      f,
		markerPhrase: config.DefaultMarkerPhrase,
		window:       exhibit.DefaultLookaheadWindow,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return "scan"
}

// Do fetches the root page and stores the exhibit links in the report.
// A fetch or parse failure aborts the run; there is nothing to download
// without the root page.
func (s *ScanStep) Do(ctx context.Context, report *model.RunReport) error {
	content, err := s.fetcher.Fetch(ctx, report.FilingURL)
	if err != nil {
		return fmt.Errorf("failed to fetch filing page: %w", err)
	}

	scanner, err := exhibit.NewScanner(report.FilingURL,
		exhibit.WithMarkerPhrase(s.markerPhrase),
		exhibit.WithLookaheadWindow(s.window),
	)
	if err != nil {
		return err
	}

	links, err := scanner.Scan(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to scan filing page: %w", err)
	}

	report.Exhibits = links
	s.logger.Info("scan completed",
		"filing", report.FilingURL,
		"exhibits", len(links),
	)
	return nil
}

// DownloadStep visits each exhibit page found by the scan step,
// resolves its document URL, and downloads the document.
//
// Per-item failures are recorded in the report and never abort the
// step; one broken exhibit page should not stop the remaining ones.
type DownloadStep struct {
	// fetcher retrieves exhibit pages.
	fetcher *fetcher.Fetcher

	// resolver picks the document URL out of an exhibit page.
	resolver *exhibit.Resolver

	// downloader transfers resolved documents to disk.
	downloader *download.Downloader

	// delay is the politeness pause before each exhibit page fetch.
	delay time.Duration

	// dryRun resolves document URLs without transferring any bytes.
	dryRun bool

	// progress receives one human-readable line per exhibit.
	progress io.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// DownloadStepOption configures a DownloadStep.
type DownloadStepOption func(*DownloadStep)

// WithDownloadDelay sets the pause before each exhibit page fetch.
// A zero delay disables the pause (useful in tests).
func WithDownloadDelay(d time.Duration) DownloadStepOption {
	return func(s *DownloadStep) {
		s.delay = d
	}
}

// WithDryRun resolves document URLs without downloading them.
func WithDryRun(dryRun bool) DownloadStepOption {
	return func(s *DownloadStep) {
		s.dryRun = dryRun
	}
}

// WithProgressWriter sets the writer for per-exhibit progress lines.
func WithProgressWriter(w io.Writer) DownloadStepOption {
	return func(s *DownloadStep) {
		if w != nil {
			s.progress = w
		}
	}
}

// WithDownloadLogger sets a custom logger for the download step.
func WithDownloadLogger(logger *slog.Logger) DownloadStepOption {
	return func(s *DownloadStep) {
		s.logger = logger
	}
}

// NewDownloadStep creates a new download step.
func NewDownloadStep(f *fetcher.Fetcher, d *download.Downloader, opts ...DownloadStepOption) *DownloadStep {
	s := &DownloadStep{
		fetcher:    f,
		resolver:   exhibit.NewResolver(),
		downloader: d,
		delay:      config.DefaultFetchDelay,
		progress:   io.Discard,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *DownloadStep) Name() string {
	return "download"
}

// Do processes each exhibit page in order. It pauses before every page
// fetch, resolves the document URL, and hands it to the downloader.
func (s *DownloadStep) Do(ctx context.Context, report *model.RunReport) error {
	for _, ex := range report.Exhibits {
		if err := s.wait(ctx); err != nil {
			return err
		}

		fmt.Fprintf(s.progress, "exhibit: %s\n", ex.URL)

		content, err := s.fetcher.Fetch(ctx, ex.URL)
		if err != nil {
			s.logger.Warn("failed to fetch exhibit page", "url", ex.URL, "error", err)
			report.AddError(ex.URL, err.Error())
			continue
		}

		res, err := s.resolver.Resolve(ex.URL, strings.NewReader(content))
		if err != nil {
			s.logger.Warn("failed to parse exhibit page", "url", ex.URL, "error", err)
			report.AddError(ex.URL, err.Error())
			continue
		}
		if !res.Found {
			s.logger.Warn("no document link found", "url", ex.URL)
			fmt.Fprintf(s.progress, "  no document link found\n")
			report.AddError(ex.URL, model.MissMessage)
			continue
		}

		if s.dryRun {
			fmt.Fprintf(s.progress, "  would download: %s\n", res.URL)
			report.AddResult(model.DownloadResult{
				ExhibitURL: ex.URL,
				PDFURL:     res.URL,
				Title:      ex.Title,
				DocumentID: download.DocumentID(res.URL),
				Outcome:    model.OutcomeSkipped,
			})
			continue
		}

		result, err := s.downloader.Download(ctx, res.URL, ex.Title)
		result.ExhibitURL = ex.URL
		report.AddResult(result)
		if err != nil {
			s.logger.Warn("download failed", "url", res.URL, "error", err)
			report.AddError(ex.URL, err.Error())
			continue
		}

		switch result.Outcome {
		case model.OutcomeDownloaded:
			fmt.Fprintf(s.progress, "  saved: %s (%d bytes)\n", result.Path, result.Size)
		case model.OutcomeSkipped:
			fmt.Fprintf(s.progress, "  up to date: %s\n", result.Path)
		case model.OutcomeDuplicate:
			fmt.Fprintf(s.progress, "  already fetched: %s\n", result.PDFURL)
		}
	}

	return nil
}

// wait pauses for the politeness delay, returning early if the context
// is cancelled.
func (s *DownloadStep) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}
