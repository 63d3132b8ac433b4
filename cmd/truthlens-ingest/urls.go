package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/pipeline"
	"github.com/spf13/cobra"
)

// NewURLsCmd creates the urls command
func NewURLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urls [url...]",
		Short: "Fetch and curate a batch of URLs",
		Long: `Fetch every URL, then extract, validate, enrich and deduplicate the pages.

URLs come from the arguments and from --input (one per line, # starts a comment,
- reads stdin). A line may name a proxy for that URL after a space.

Examples:
  truthlens-ingest urls https://example.com/a https://example.com/b
  truthlens-ingest urls --input urls.txt --output dataset.jsonl --report report.json`,
		Args: cobra.ArbitraryArgs,
		RunE: runURLsCmd,
	}

	cmd.Flags().StringP("input", "i", "", "File with one URL per line (- for stdin)")
	cmd.Flags().StringSlice("proxy", nil, "Proxy URL to rotate through (repeatable)")

	return cmd
}

func runURLsCmd(cmd *cobra.Command, args []string) error {
	targets := make([]document.FetchTarget, 0, len(args))
	for _, arg := range args {
		targets = append(targets, document.FetchTarget{URL: arg})
	}

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		fromFile, err := readTargetsFile(cmd, input)
		if err != nil {
			return err
		}
		targets = append(targets, fromFile...)
	}
	if len(targets) == 0 {
		return fmt.Errorf("no URLs given: pass them as arguments or with --input")
	}

	proxies, _ := cmd.Flags().GetStringSlice("proxy")

	return runBatch(cmd, func(config *pipeline.PipelineConfig) {
		config.Fetch.Proxies = append(config.Fetch.Proxies, proxies...)
	}, func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.BatchResult, error) {
		return p.ProcessTargets(ctx, targets)
	})
}

func readTargetsFile(cmd *cobra.Command, path string) ([]document.FetchTarget, error) {
	if path == "-" {
		return readTargets(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return readTargets(f)
}

// readTargets parses "URL [proxy]" lines, skipping blanks and comments
func readTargets(r io.Reader) ([]document.FetchTarget, error) {
	var targets []document.FetchTarget

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		target := document.FetchTarget{URL: fields[0]}
		if len(fields) > 1 {
			target.Proxy = fields[1]
		}
		targets = append(targets, target)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return targets, nil
}
