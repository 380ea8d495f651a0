package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/exhibitfetch/internal/config"
	"github.com/nao1215/exhibitfetch/internal/database"
	"github.com/nao1215/exhibitfetch/internal/download"
	"github.com/nao1215/exhibitfetch/internal/fetcher"
	"github.com/nao1215/exhibitfetch/internal/log"
	"github.com/nao1215/exhibitfetch/internal/model"
	"github.com/nao1215/exhibitfetch/internal/pipeline"
	"github.com/nao1215/exhibitfetch/internal/report"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <filing-url>",
		Short: "Scan a filing page and download its PDF exhibits",
		Long: `Fetch scans the given FCC equipment filing page for exhibit sub-pages
marked as Adobe Acrobat PDF, resolves each exhibit's document URL, and
downloads the documents into the output directory.

A fixed politeness delay separates every page fetch. Documents that
already exist locally with the remote's exact size are skipped, so
re-running after an interruption only transfers what is missing.

Examples:
  # Download all PDF exhibits of a filing
  exhibitfetch fetch https://fccid.io/BCG-E8726A

  # Use a custom output directory and a slower request pace
  exhibitfetch fetch -o exhibits --delay 1s https://fccid.io/BCG-E8726A

  # List what would be downloaded without transferring anything
  exhibitfetch fetch --dry-run https://fccid.io/BCG-E8726A

  # Output a JSON report
  exhibitfetch fetch --json https://fccid.io/BCG-E8726A

Configuration file (.exhibitfetch) example:
  filings:
    BCG-E8726A:
      outputDir: "iphone_exhibits"
      fetchDelay: 1s
    2AC7Z-ESP32:
      markerPhrase: "pdf document"`,
		Args: cobra.ExactArgs(1),
		RunE: runFetchCmd,
	}

	// Fetch behavior flags
	cmd.Flags().StringP("out", "o", config.DefaultOutputDir,
		"Output directory for downloaded documents")
	cmd.Flags().DurationP("delay", "d", config.DefaultFetchDelay,
		"Politeness delay before each page fetch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body", config.DefaultMaxBodySize,
		"Maximum HTML page size in bytes to read")
	cmd.Flags().String("marker", config.DefaultMarkerPhrase,
		"Text near an anchor that marks it as a PDF exhibit")
	cmd.Flags().Bool("dry-run", false,
		"Resolve document URLs without downloading anything")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .exhibitfetch in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runFetch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.FilingURL = args[0]

	var err error

	cfg.OutputDir, err = cmd.Flags().GetString("out")
	if err != nil {
		return nil, err
	}

	cfg.FetchDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body")
	if err != nil {
		return nil, err
	}

	cfg.MarkerPhrase, err = cmd.Flags().GetString("marker")
	if err != nil {
		return nil, err
	}

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-filing configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FilingConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.FilingConfigs = &config.File{
			Filings: make(map[string]config.FilingConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	// Always record run history using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// filingID extracts the filing identifier from the filing URL.
// This is the trailing path segment, e.g. "BCG-E8726A" for
// https://fccid.io/BCG-E8726A.
func filingID(filingURL string) string {
	u, err := url.Parse(filingURL)
	if err != nil {
		return ""
	}
	return path.Base(strings.TrimSuffix(u.Path, "/"))
}

// applyFilingConfig applies per-filing overrides from the config file.
func applyFilingConfig(cfg *config.Config) config.FilingConfig {
	if cfg.FilingConfigs == nil {
		return config.FilingConfig{}
	}

	fc := cfg.FilingConfigs.GetFilingConfig(filingID(cfg.FilingURL))
	if fc.MarkerPhrase != "" {
		cfg.MarkerPhrase = fc.MarkerPhrase
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.FetchDelay != 0 {
		cfg.FetchDelay = fc.FetchDelay
	}
	return fc
}

// runFetch executes the scan-and-download run.
func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	filingCfg := applyFilingConfig(cfg)

	logger.Info("starting fetch",
		"filing", cfg.FilingURL,
		"outputDir", cfg.OutputDir,
		"delay", cfg.FetchDelay,
		"dryRun", cfg.DryRun,
	)

	// Open run-history database; history is best-effort and never
	// blocks a run.
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			logger.Debug("database opened", "dir", cfg.DBDir)
		}
	}

	// Build the HTTP fetcher with per-filing headers
	headers := make(map[string]string, len(filingCfg.Headers)+1)
	for k, v := range filingCfg.Headers {
		headers[k] = v
	}
	if filingCfg.Cookie != "" {
		headers["Cookie"] = filingCfg.Cookie
	}

	f := fetcher.New(
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithHeaders(headers),
	)

	d := download.NewDownloader(f, cfg.OutputDir,
		download.WithLogger(logger),
	)

	p := pipeline.New(
		pipeline.WithLogger(logger),
	)
	p.AddSteps(
		pipeline.NewScanStep(f,
			pipeline.WithScanMarkerPhrase(cfg.MarkerPhrase),
			pipeline.WithScanLogger(logger),
		),
		pipeline.NewDownloadStep(f, d,
			pipeline.WithDownloadDelay(cfg.FetchDelay),
			pipeline.WithDryRun(cfg.DryRun),
			pipeline.WithProgressWriter(os.Stdout),
			pipeline.WithDownloadLogger(logger),
		),
	)

	runReport := model.NewRunReport(cfg.FilingURL)

	fmt.Printf("Scanning %s...\n", cfg.FilingURL)
	startTime := time.Now()

	err := p.Execute(ctx, runReport)
	runReport.FinishedAt = time.Now()
	if err != nil {
		return err
	}

	fmt.Printf("Done in %s: %d downloaded, %d up to date, %d missed, %d failed\n",
		time.Since(startTime).Round(time.Millisecond),
		runReport.Downloaded(), runReport.Skipped(), runReport.Missed(), runReport.Failed())

	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("report failed", "filing", cfg.FilingURL, "error", err)
	}

	if err := saveRunReport(ctx, db, runReport, logger); err != nil {
		logger.Error("failed to save run history", "filing", cfg.FilingURL, "error", err)
	}

	return nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
		)
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(runReport)
	return err
}

// saveRunReport saves the run to the history database if enabled.
// If db is nil, this function is a no-op.
func saveRunReport(ctx context.Context, db *database.RunDB, runReport *model.RunReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRun(ctx, runReport)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run recorded", "id", id, "filing", runReport.FilingURL)
	return nil
}
