package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Caia-Tech/truthlens-ingest/internal/output"
	"github.com/spf13/cobra"
)

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [FILE]",
		Short: "Print a dataset summary for a JSONL output file",
		Long: `Read records written by the urls or html commands and report the record
count, average length, mean readability, citation rate and sentiment split.
Reads stdin when FILE is omitted or is -.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSummarizeCmd,
	}
}

func runSummarizeCmd(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open records: %w", err)
		}
		defer f.Close()
		r = f
	}

	records, err := output.ReadJSONL(r)
	if err != nil {
		return err
	}

	return output.Summarize(records).WriteText(cmd.OutOrStdout())
}
