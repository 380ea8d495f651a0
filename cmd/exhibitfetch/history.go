package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/exhibitfetch/internal/config"
	"github.com/nao1215/exhibitfetch/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [filing-url]",
		Short: "Show previous fetch runs",
		Long: `History lists earlier fetch runs recorded in the local database.

Without arguments it lists runs across all filings. With a filing URL
it lists only that filing's runs.

Examples:
  # Show the last runs for all filings
  exhibitfetch history

  # Show runs for one filing
  exhibitfetch history https://fccid.io/BCG-E8726A

  # Show only the 5 most recent runs
  exhibitfetch history -n 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	filingURL := ""
	if len(args) > 0 {
		filingURL = args[0]
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no run history found (run \"exhibitfetch fetch\" first): %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), filingURL, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tFILING\tEXHIBITS\tDOWNLOADED\tUP-TO-DATE\tMISSED\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04"),
			shortenFiling(r.FilingURL),
			r.Exhibits,
			r.Downloaded,
			r.Skipped,
			r.Missed,
			r.Failed,
		)
	}
	return w.Flush()
}

// shortenFiling trims the scheme from a filing URL for table display.
func shortenFiling(filingURL string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(filingURL, prefix) {
			return strings.TrimPrefix(filingURL, prefix)
		}
	}
	return filingURL
}
