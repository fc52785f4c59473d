// Package analyzer orchestrates an audit run: it partitions the page range
// into batches, sends each batch to the model, gates the structured output
// and folds validated findings into a single report.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/auditoria/textaudit/internal/audit"
	auditprompt "github.com/auditoria/textaudit/internal/prompts/audit"
	"github.com/auditoria/textaudit/internal/providers"
)

// PageSource supplies the pages under audit. *pdf.Document satisfies it.
type PageSource interface {
	PageCount() int
	ExtractRange(start, end int) ([]byte, error)
}

// Config carries the generation and batching parameters for one run.
type Config struct {
	Model           string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	BatchSize       int
	RequestTimeout  time.Duration
}

// DefaultConfig returns the parameters tuned for the audit prompt: low
// temperature, single-page batches.
func DefaultConfig() Config {
	return Config{
		Temperature:     0.1,
		TopP:            0.9,
		MaxOutputTokens: 54000,
		BatchSize:       1,
		RequestTimeout:  120 * time.Second,
	}
}

// Analyzer runs the audit pipeline against one LLM client.
type Analyzer struct {
	client    providers.LLMClient
	limiter   *providers.RateLimiter
	validator *audit.Validator
	logger    *slog.Logger
	cfg       Config
}

// New creates an analyzer. A nil limiter disables rate limiting; a nil
// logger falls back to slog.Default.
func New(client providers.LLMClient, limiter *providers.RateLimiter, logger *slog.Logger, cfg Config) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &Analyzer{
		client:    client,
		limiter:   limiter,
		validator: audit.NewValidator(logger),
		logger:    logger,
		cfg:       cfg,
	}
}

// Analyze audits pages from..to (1-indexed, inclusive) of the source and
// returns the merged report. A failed batch is recorded as a failed range
// and the run continues; Analyze only returns an error when the context is
// cancelled or the requested range is invalid.
func (a *Analyzer) Analyze(ctx context.Context, source PageSource, name string, from, to int) (*audit.Report, error) {
	total := source.PageCount()
	if from < 1 || to > total || from > to {
		return nil, fmt.Errorf("page range %d-%d out of bounds (document has %d pages)", from, to, total)
	}

	report := &audit.Report{
		RunID:    uuid.New().String(),
		Document: name,
		Pages:    audit.PageRange{Start: from, End: to},
		Findings: []audit.Finding{},
	}

	batches := MakeBatches(from, to, a.cfg.BatchSize)
	a.logger.Info("starting audit run",
		"run_id", report.RunID,
		"document", name,
		"pages", report.Pages.String(),
		"batches", len(batches),
		"provider", a.client.Name())

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		findings, err := a.analyzeBatch(ctx, source, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.logger.Warn("batch failed, continuing",
				"run_id", report.RunID,
				"pages", batch.Range().String(),
				"error", err)
			report.FailedRanges = append(report.FailedRanges, audit.FailedRange{
				Pages:  batch.Range(),
				Reason: err.Error(),
			})
			continue
		}
		report.Findings = append(report.Findings, findings...)
	}

	a.logger.Info("audit run complete",
		"run_id", report.RunID,
		"findings", len(report.Findings),
		"failed_ranges", len(report.FailedRanges))

	return report, nil
}

// analyzeBatch sends one page sub-range to the model and returns the
// validated findings in page order.
func (a *Analyzer) analyzeBatch(ctx context.Context, source PageSource, batch Batch) ([]audit.Finding, error) {
	doc, err := source.ExtractRange(batch.Start, batch.End)
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}

	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: auditprompt.SystemPrompt()},
			{Role: "user", Content: auditprompt.UserPrompt(batch.Start, batch.End), Documents: [][]byte{doc}},
		},
		Model:           a.cfg.Model,
		Temperature:     a.cfg.Temperature,
		TopP:            a.cfg.TopP,
		MaxOutputTokens: a.cfg.MaxOutputTokens,
		Timeout:         a.cfg.RequestTimeout,
		ResponseFormat: &providers.ResponseFormat{
			Name:   "editorial_audit",
			Schema: auditprompt.RequestSchema,
		},
		RequestID: uuid.New().String(),
	}

	result, err := a.client.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("model request failed: %s", result.ErrorMessage)
	}

	parsed := result.ParsedJSON
	if len(parsed) == 0 {
		parsed, err = providers.ParseStructuredJSON(result.Content)
		if err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
	}
	if err := providers.ValidateStructuredJSON(auditprompt.EnvelopeSchema, parsed); err != nil {
		return nil, err
	}

	var envelope auditprompt.Envelope
	if err := json.Unmarshal(parsed, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return a.collectFindings(envelope, batch), nil
}

// collectFindings flattens a batch envelope into validated findings,
// ordered by page then by the model's emission order within a page.
func (a *Analyzer) collectFindings(envelope auditprompt.Envelope, batch Batch) []audit.Finding {
	pages := make([]auditprompt.PageResult, len(envelope.Pages))
	copy(pages, envelope.Pages)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].PDFPage < pages[j].PDFPage
	})

	var raws []audit.RawFinding
	for _, page := range pages {
		bookPage := parseBookPage(page.BookPage)
		for _, f := range page.Findings {
			raws = append(raws, audit.RawFinding{
				Category:         f.Category,
				Priority:         f.Priority,
				PDFPage:          page.PDFPage,
				BookPage:         bookPage,
				OriginalFragment: f.OriginalFragment,
				Recommendation:   f.Recommendation,
				Language:         page.Language,
			})
		}
	}

	return a.validator.ValidateAll(raws, batch.Range())
}

// parseBookPage interprets the printed page number the model read off the
// page. Non-numeric labels (roman numerals, blanks) map to nil.
func parseBookPage(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return nil
	}
	return &n
}
