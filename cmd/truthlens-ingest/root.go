package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truthlens-ingest",
		Short: "Ingest web documents into a curated fact-checking dataset",
		Long: `truthlens-ingest fetches pages politely (per-domain rate limits, retries with
backoff), extracts the article text, keeps English documents of a useful length,
attaches readability, sentiment and citation metadata, and drops near-duplicates.

Records are written as JSON lines, one per curated document.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "YAML configuration file (TRUTHLENS_* variables override it)")
	flags.StringP("output", "o", "-", "Write JSONL records to this file (- for stdout)")
	flags.String("report", "", "Write the batch report as JSON to this file")
	flags.Bool("summary", false, "Print a dataset summary to stderr after the batch")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: json or pretty")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while the batch runs")

	cmd.AddCommand(NewURLsCmd())
	cmd.AddCommand(NewHTMLCmd())
	cmd.AddCommand(NewSummarizeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
