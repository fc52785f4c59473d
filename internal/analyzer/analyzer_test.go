package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/auditoria/textaudit/internal/audit"
	"github.com/auditoria/textaudit/internal/providers"
)

// fakeSource is an in-memory PageSource.
type fakeSource struct {
	pages      int
	extractErr error
}

func (s *fakeSource) PageCount() int { return s.pages }

func (s *fakeSource) ExtractRange(start, end int) ([]byte, error) {
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return []byte(fmt.Sprintf("pdf %d-%d", start, end)), nil
}

func testAnalyzer(client providers.LLMClient, cfg Config) *Analyzer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(client, nil, logger, cfg)
}

// pageJSON builds a single-page envelope with the given findings.
func pageJSON(pdfPage int, findings ...map[string]string) json.RawMessage {
	fs := make([]any, 0, len(findings))
	for _, f := range findings {
		fs = append(fs, f)
	}
	env := map[string]any{
		"pages": []any{
			map[string]any{
				"pdf_page":  pdfPage,
				"book_page": "",
				"language":  "spanish",
				"findings":  fs,
			},
		},
	}
	b, _ := json.Marshal(env)
	return b
}

func finding(category, priority string) map[string]string {
	return map[string]string{
		"category":          category,
		"priority":          priority,
		"original_fragment": "los alumnos estudian",
		"recommendation":    "revisar la redaccion del fragmento",
	}
}

func TestAnalyzeSinglePageRun(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = pageJSON(1, finding("spelling", "High"))

	a := testAnalyzer(mock, DefaultConfig())
	report, err := a.Analyze(context.Background(), &fakeSource{pages: 1}, "libro", 1, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(report.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(report.Findings))
	}
	f := report.Findings[0]
	if f.Category != audit.CategorySpelling || f.Priority != audit.PriorityHigh {
		t.Errorf("finding = %+v", f)
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}
	if report.Document != "libro" {
		t.Errorf("document = %q", report.Document)
	}
	if len(report.FailedRanges) != 0 {
		t.Errorf("unexpected failed ranges: %v", report.FailedRanges)
	}
}

func TestAnalyzeMiddleBatchFailure(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Script = []providers.MockResponse{
		{JSON: pageJSON(1, finding("grammar", "Low"))},
		{Err: errors.New("request timed out")},
		{JSON: pageJSON(3, finding("gender_bias", "High"))},
	}

	a := testAnalyzer(mock, DefaultConfig())
	report, err := a.Analyze(context.Background(), &fakeSource{pages: 3}, "doc", 1, 3)
	if err != nil {
		t.Fatalf("a failed batch must not fail the run: %v", err)
	}

	if len(report.Findings) != 2 {
		t.Fatalf("findings = %d, want 2", len(report.Findings))
	}
	if report.Findings[0].PDFPage != 1 || report.Findings[1].PDFPage != 3 {
		t.Errorf("finding pages = %d, %d", report.Findings[0].PDFPage, report.Findings[1].PDFPage)
	}
	if len(report.FailedRanges) != 1 {
		t.Fatalf("failed ranges = %d, want 1", len(report.FailedRanges))
	}
	fr := report.FailedRanges[0]
	if fr.Pages.Start != 2 || fr.Pages.End != 2 {
		t.Errorf("failed range = %v", fr.Pages)
	}
	if fr.Reason == "" {
		t.Error("failed range must carry a reason")
	}
}

func TestAnalyzeZeroFindings(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = pageJSON(1)

	a := testAnalyzer(mock, DefaultConfig())
	report, err := a.Analyze(context.Background(), &fakeSource{pages: 1}, "doc", 1, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Findings) != 0 {
		t.Errorf("findings = %d, want 0", len(report.Findings))
	}
	if report.Findings == nil {
		t.Error("findings must be non-nil for rendering")
	}
}

func TestAnalyzeDropsOutOfRangePages(t *testing.T) {
	mock := providers.NewMockClient()
	// Model hallucinates page 7 while batch covers page 2 only.
	env := map[string]any{
		"pages": []any{
			map[string]any{"pdf_page": 2, "findings": []any{finding("semantics", "Medium")}},
			map[string]any{"pdf_page": 7, "findings": []any{finding("spelling", "High")}},
		},
	}
	b, _ := json.Marshal(env)
	mock.ResponseJSON = b

	a := testAnalyzer(mock, DefaultConfig())
	report, err := a.Analyze(context.Background(), &fakeSource{pages: 10}, "doc", 2, 2)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(report.Findings))
	}
	if report.Findings[0].PDFPage != 2 {
		t.Errorf("kept page = %d, want 2", report.Findings[0].PDFPage)
	}
}

func TestAnalyzeBatchSizePartitioning(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = pageJSON(1)

	cfg := DefaultConfig()
	cfg.BatchSize = 3

	a := testAnalyzer(mock, cfg)
	_, err := a.Analyze(context.Background(), &fakeSource{pages: 7}, "doc", 1, 7)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := mock.RequestCount(); got != 3 {
		t.Errorf("requests = %d, want 3 batches for 7 pages of size 3", got)
	}
}

func TestAnalyzeInvalidRange(t *testing.T) {
	a := testAnalyzer(providers.NewMockClient(), DefaultConfig())

	for _, rng := range [][2]int{{0, 1}, {1, 11}, {5, 3}} {
		if _, err := a.Analyze(context.Background(), &fakeSource{pages: 10}, "doc", rng[0], rng[1]); err == nil {
			t.Errorf("range %d-%d: expected error", rng[0], rng[1])
		}
	}
}

func TestAnalyzeCancellation(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = pageJSON(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := testAnalyzer(mock, DefaultConfig())
	if _, err := a.Analyze(ctx, &fakeSource{pages: 3}, "doc", 1, 3); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAnalyzeMalformedEnvelope(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = json.RawMessage(`{"unexpected":true}`)

	a := testAnalyzer(mock, DefaultConfig())
	report, err := a.Analyze(context.Background(), &fakeSource{pages: 1}, "doc", 1, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.FailedRanges) != 1 {
		t.Fatalf("a malformed envelope should fail its batch, got %v", report.FailedRanges)
	}
}

func TestAnalyzeExtractFailure(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = pageJSON(1)

	a := testAnalyzer(mock, DefaultConfig())
	source := &fakeSource{pages: 2, extractErr: errors.New("damaged xref table")}
	report, err := a.Analyze(context.Background(), source, "doc", 1, 2)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.FailedRanges) != 2 {
		t.Errorf("failed ranges = %d, want 2", len(report.FailedRanges))
	}
	if mock.RequestCount() != 0 {
		t.Errorf("no model calls expected when extraction fails, got %d", mock.RequestCount())
	}
}

func TestParseBookPage(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"12", intPtr(12)},
		{" 7 ", intPtr(7)},
		{"", nil},
		{"xii", nil},
		{"0", nil},
		{"-3", nil},
	}
	for _, tt := range tests {
		got := parseBookPage(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseBookPage(%q) = %d, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("parseBookPage(%q) = %v, want %d", tt.in, got, *tt.want)
		}
	}
}

func intPtr(n int) *int { return &n }
