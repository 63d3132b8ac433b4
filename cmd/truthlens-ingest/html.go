package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/Caia-Tech/truthlens-ingest/pkg/pipeline"
	"github.com/spf13/cobra"
)

// NewHTMLCmd creates the html command
func NewHTMLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "html FILE...",
		Short: "Curate saved HTML files without fetching",
		Long: `Run saved HTML pages through extraction, validation, enrichment and
deduplication. Each record's source_url is the file:// URL of its file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runHTMLCmd,
	}
}

func runHTMLCmd(cmd *cobra.Command, args []string) error {
	docs := make([]document.RawDocument, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		docs = append(docs, document.RawDocument{
			SourceURL: "file://" + filepath.ToSlash(abs),
			HTML:      string(data),
		})
	}

	return runBatch(cmd, nil, func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.BatchResult, error) {
		return p.ProcessHTML(ctx, docs)
	})
}
