package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Caia-Tech/truthlens-ingest/internal/output"
	"github.com/Caia-Tech/truthlens-ingest/pkg/logging"
	"github.com/Caia-Tech/truthlens-ingest/pkg/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type batchFunc func(ctx context.Context, p *pipeline.Pipeline) (*pipeline.BatchResult, error)

// runBatch loads configuration, sets up logging and metrics, runs one batch
// and writes its records, report and summary
func runBatch(cmd *cobra.Command, adjust func(*pipeline.PipelineConfig), run batchFunc) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if adjust != nil {
		adjust(config)
	}

	if err := logging.SetupLogger(config.Logging); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	logger := logging.GetLogger("cli")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if config.Metrics.Addr != "" {
		server := &http.Server{
			Addr:              config.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", config.Metrics.Addr).Msg("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	p, err := pipeline.New(config, pipeline.WithRegisterer(reg))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	result, err := run(ctx, p)
	if err != nil {
		return err
	}

	if err := writeRecords(cmd, result); err != nil {
		return err
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := writeJSONFile(reportPath, result.Report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		if err := output.Summarize(result.Records).WriteText(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	logger.Info().
		Str("run_id", result.Report.RunID).
		Int("records", len(result.Records)).
		Int("failures", len(result.Report.Failures)).
		Int("duplicates", len(result.Report.Duplicates)).
		Dur("duration", result.Report.Duration).
		Msg("Ingestion finished")

	return nil
}

// loadConfig reads the config file and applies flag overrides on top
func loadConfig(cmd *cobra.Command) (*pipeline.PipelineConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	config, err := pipeline.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		config.Logging.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		config.Logging.Format = format
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		config.Metrics.Addr = addr
	}

	return config, nil
}

func writeRecords(cmd *cobra.Command, result *pipeline.BatchResult) error {
	path, _ := cmd.Flags().GetString("output")

	var w io.Writer = cmd.OutOrStdout()
	if path != "" && path != "-" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	writer := output.NewJSONLWriter(w)
	if err := writer.WriteAll(result.Records); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	logger := logging.GetLogger("cli")
	logger.Debug().
		Int("records", writer.Written()).
		Str("output", path).
		Msg("Records written")
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
