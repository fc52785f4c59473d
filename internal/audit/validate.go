package audit

import (
	"log/slog"
	"strings"
)

// Word-count ceilings for report fields. Overlong text is truncated,
// never rejected.
const (
	MaxFragmentWords       = 10
	MaxRecommendationWords = 60
)

// RawFinding is one finding-like record as decoded from a model response,
// before any validation. All string fields are untrusted.
type RawFinding struct {
	Category         string
	Priority         string
	PDFPage          int
	BookPage         *int
	OriginalFragment string
	Recommendation   string
	Language         string
}

// Validator is the schema-and-policy gate between the model's loosely-typed
// output and the Finding model. It is a pure function of its inputs apart
// from logging drop reasons.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a validator. A nil logger falls back to slog.Default.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Validate normalizes a single raw record into a Finding. The second return
// is false when the record is dropped; dropping is logged, never an error.
func (v *Validator) Validate(raw RawFinding, pages PageRange) (Finding, bool) {
	if strings.TrimSpace(raw.Category) == "" ||
		strings.TrimSpace(raw.Priority) == "" ||
		strings.TrimSpace(raw.OriginalFragment) == "" ||
		strings.TrimSpace(raw.Recommendation) == "" ||
		raw.PDFPage == 0 {
		v.logger.Warn("dropping finding: missing required field",
			"category", raw.Category,
			"pdf_page", raw.PDFPage)
		return Finding{}, false
	}

	category, ok := ParseCategory(raw.Category)
	if !ok {
		v.logger.Warn("dropping finding: unknown category",
			"category", raw.Category,
			"pdf_page", raw.PDFPage)
		return Finding{}, false
	}

	if !pages.Contains(raw.PDFPage) {
		v.logger.Warn("dropping finding: page outside analyzed range",
			"pdf_page", raw.PDFPage,
			"range", pages.String())
		return Finding{}, false
	}

	return Finding{
		Category:         category,
		Priority:         ParsePriority(raw.Priority),
		PDFPage:          raw.PDFPage,
		BookPage:         raw.BookPage,
		OriginalFragment: TruncateWords(raw.OriginalFragment, MaxFragmentWords),
		Recommendation:   TruncateWords(raw.Recommendation, MaxRecommendationWords),
		Language:         strings.TrimSpace(raw.Language),
	}, true
}

// ValidateAll filters a batch of raw records, preserving input order.
// Individual drops never fail the batch.
func (v *Validator) ValidateAll(raws []RawFinding, pages PageRange) []Finding {
	findings := make([]Finding, 0, len(raws))
	for _, raw := range raws {
		if f, ok := v.Validate(raw, pages); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// TruncateWords keeps exactly the first max whitespace-separated words.
func TruncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ")
}
