// Package main provides the entry point for the exhibitfetch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for exhibitfetch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exhibitfetch",
		Short: "Download PDF exhibits from an FCC equipment filing page",
		Long: `exhibitfetch scans an FCC equipment filing page, finds the exhibit
sub-pages marked as Adobe Acrobat PDF, and downloads each exhibit
document into a local directory.

Re-runs are cheap: files that already exist locally with the remote's
exact size are skipped without a transfer.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
