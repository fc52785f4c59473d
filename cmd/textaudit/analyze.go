package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditoria/textaudit/internal/analyzer"
	"github.com/auditoria/textaudit/internal/config"
	"github.com/auditoria/textaudit/internal/pdf"
	"github.com/auditoria/textaudit/internal/providers"
)

var (
	analyzeFrom     int
	analyzeTo       int
	analyzeFormat   string
	analyzeOutput   string
	analyzeProvider string
	analyzeBatch    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Audit a PDF document and report findings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// Multi-batch runs can take minutes; watch the config file so
		// edits made mid-run are reloaded and visible via mgr.Get().
		mgr.OnChange(func(updated *config.Config) {
			logger.Info("configuration reloaded",
				"default_provider", updated.Defaults.Provider)
		})
		mgr.WatchConfig()

		providerName := analyzeProvider
		if providerName == "" {
			providerName = cfg.Defaults.Provider
		}
		providerCfg, err := cfg.ToProviderConfig(providerName)
		if err != nil {
			return err
		}
		client, err := providers.New(providerCfg)
		if err != nil {
			return err
		}

		doc, err := pdf.Open(args[0])
		if err != nil {
			return err
		}

		from := analyzeFrom
		if from == 0 {
			from = 1
		}
		to := analyzeTo
		if to == 0 {
			to = doc.PageCount()
		}

		batchSize := analyzeBatch
		if batchSize == 0 {
			batchSize = cfg.Analysis.BatchSize
		}

		runCfg := analyzer.Config{
			Model:           providerCfg.Model,
			Temperature:     cfg.Analysis.Temperature,
			TopP:            cfg.Analysis.TopP,
			MaxOutputTokens: cfg.Analysis.MaxOutputTokens,
			BatchSize:       batchSize,
			RequestTimeout:  time.Duration(cfg.Analysis.RequestTimeoutSeconds) * time.Second,
		}

		var limiter *providers.RateLimiter
		if providerCfg.RateLimit > 0 {
			limiter = providers.NewRateLimiter(providerCfg.RateLimit)
		}

		a := analyzer.New(client, limiter, logger, runCfg)
		report, err := a.Analyze(cmd.Context(), doc, doc.Name(), from, to)
		if err != nil {
			return err
		}

		var rendered string
		switch analyzeFormat {
		case "table":
			rendered = report.TableText() + "\n" + report.SummaryText()
		case "csv":
			rendered = report.DelimitedText()
		case "json":
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			rendered = string(data) + "\n"
		default:
			return fmt.Errorf("unknown format %q (want table, csv or json)", analyzeFormat)
		}

		if analyzeOutput != "" {
			if err := os.WriteFile(analyzeOutput, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			logger.Info("report written", "path", analyzeOutput)
			return nil
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeFrom, "from", 0, "first page to analyze (default: 1)")
	analyzeCmd.Flags().IntVar(&analyzeTo, "to", 0, "last page to analyze (default: last page)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "output format: table, csv or json")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVarP(&analyzeProvider, "provider", "p", "", "provider to use (default: configured default)")
	analyzeCmd.Flags().IntVar(&analyzeBatch, "batch-size", 0, "pages per model request (default: configured batch_size)")
}

// newLogger builds the run logger on stderr so reports on stdout stay
// machine-readable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
