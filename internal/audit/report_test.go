package audit

import (
	"strings"
	"testing"
)

func sampleReport() *Report {
	book := 12
	return &Report{
		RunID:    "test-run",
		Document: "manual.pdf",
		Pages:    PageRange{Start: 1, End: 6},
		Findings: []Finding{
			{
				Category:         CategorySpelling,
				Priority:         PriorityMedium,
				PDFPage:          1,
				OriginalFragment: "habia",
				Recommendation:   "Corregir tilde: 'había'.",
			},
			{
				Category:         CategoryGenderBias,
				Priority:         PriorityHigh,
				PDFPage:          2,
				BookPage:         &book,
				OriginalFragment: "las sensibles maestras",
				Recommendation:   "Eliminar estereotipo de género: 'sensibles'.",
			},
			{
				Category:         CategorySemantics,
				Priority:         PriorityLow,
				PDFPage:          2,
				OriginalFragment: "subir | arriba",
				Recommendation:   "Eliminar redundancia: 'subir'.",
			},
		},
		FailedRanges: []FailedRange{
			{Pages: PageRange{Start: 5, End: 6}, Reason: "request timed out"},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := sampleReport().Summarize()

	if s.Total != 3 {
		t.Errorf("total = %d, want 3", s.Total)
	}
	if s.ByCategory[CategorySpelling] != 1 || s.ByCategory[CategoryGenderBias] != 1 || s.ByCategory[CategorySemantics] != 1 {
		t.Errorf("unexpected category counts: %v", s.ByCategory)
	}
	if s.ByPriority[PriorityHigh] != 1 || s.ByPriority[PriorityMedium] != 1 || s.ByPriority[PriorityLow] != 1 {
		t.Errorf("unexpected priority counts: %v", s.ByPriority)
	}
	// 6 requested minus the 2 failed pages.
	if s.PagesAnalyzed != 4 {
		t.Errorf("pages analyzed = %d, want 4", s.PagesAnalyzed)
	}
}

func TestTableText(t *testing.T) {
	out := sampleReport().TableText()

	if !strings.Contains(out, "### Results for: manual.pdf") {
		t.Error("missing document header")
	}
	if !strings.Contains(out, "| category | priority | pdf_page | book_page | original_fragment | recommendation |") {
		t.Error("missing column header row")
	}
	if !strings.Contains(out, "| gender_bias | High | 2 | 12 |") {
		t.Errorf("missing gender_bias row:\n%s", out)
	}
	// Absent book page renders as a dash; pipes in content are escaped.
	if !strings.Contains(out, "| spelling | Medium | 1 | - |") {
		t.Errorf("missing dash for absent book page:\n%s", out)
	}
	if !strings.Contains(out, `subir \| arriba`) {
		t.Errorf("pipe not escaped:\n%s", out)
	}
	if !strings.Contains(out, "Pages not analyzed: 5-6 (request timed out)") {
		t.Errorf("missing failed range annotation:\n%s", out)
	}
}

func TestTableText_EmptyReport(t *testing.T) {
	r := &Report{Pages: PageRange{Start: 1, End: 3}}
	out := r.TableText()
	if !strings.Contains(out, "No findings") {
		t.Errorf("expected empty-report message, got:\n%s", out)
	}
}

func TestDelimitedText(t *testing.T) {
	out := sampleReport().DelimitedText()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header + 3 rows):\n%s", len(lines), out)
	}
	if lines[0] != "category,priority,pdf_page,book_page,original_fragment,recommendation" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "spelling,Medium,1,,") {
		t.Errorf("absent book page should be empty in CSV: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "gender_bias,High,2,12,") {
		t.Errorf("unexpected row: %s", lines[2])
	}
}

func TestRendering_Deterministic(t *testing.T) {
	r := sampleReport()

	if r.TableText() != r.TableText() {
		t.Error("TableText is not idempotent")
	}
	if r.DelimitedText() != r.DelimitedText() {
		t.Error("DelimitedText is not idempotent")
	}
	if r.SummaryText() != r.SummaryText() {
		t.Error("SummaryText is not idempotent")
	}
}

func TestSummaryText_FixedOrder(t *testing.T) {
	out := sampleReport().SummaryText()

	gender := strings.Index(out, "gender_bias")
	spelling := strings.Index(out, "spelling")
	if gender == -1 || spelling == -1 || gender > spelling {
		t.Errorf("categories not in fixed order:\n%s", out)
	}

	high := strings.Index(out, "High")
	low := strings.Index(out, "Low")
	if high == -1 || low == -1 || high > low {
		t.Errorf("priorities not in fixed order:\n%s", out)
	}
}

func TestPageRange(t *testing.T) {
	r := PageRange{Start: 3, End: 7}

	if !r.Contains(3) || !r.Contains(7) || r.Contains(2) || r.Contains(8) {
		t.Error("Contains boundaries wrong")
	}
	if r.Pages() != 5 {
		t.Errorf("Pages() = %d, want 5", r.Pages())
	}
	if r.String() != "3-7" {
		t.Errorf("String() = %q", r.String())
	}
	single := PageRange{Start: 4, End: 4}
	if single.String() != "4" {
		t.Errorf("single page String() = %q", single.String())
	}
}
