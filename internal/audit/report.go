package audit

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// FailedRange records a batch whose pages could not be analyzed.
type FailedRange struct {
	Pages  PageRange `json:"pages"`
	Reason string    `json:"reason"`
}

// Report is the final, ordered collection of validated findings for one
// analysis run, plus the page ranges that failed. Rendering is a pure
// function of the report's contents.
type Report struct {
	RunID        string        `json:"run_id"`
	Document     string        `json:"document,omitempty"`
	Pages        PageRange     `json:"pages"`
	Findings     []Finding     `json:"findings"`
	FailedRanges []FailedRange `json:"failed_ranges,omitempty"`
}

// Summary aggregates finding counts for one report.
type Summary struct {
	Total         int              `json:"total"`
	ByCategory    map[Category]int `json:"by_category"`
	ByPriority    map[Priority]int `json:"by_priority"`
	PagesAnalyzed int              `json:"pages_analyzed"`
}

// Summarize computes counts per category and priority.
func (r *Report) Summarize() Summary {
	s := Summary{
		Total:         len(r.Findings),
		ByCategory:    make(map[Category]int),
		ByPriority:    make(map[Priority]int),
		PagesAnalyzed: r.Pages.Pages(),
	}
	for _, fr := range r.FailedRanges {
		s.PagesAnalyzed -= fr.Pages.Pages()
	}
	for _, f := range r.Findings {
		s.ByCategory[f.Category]++
		s.ByPriority[f.Priority]++
	}
	return s
}

// tableColumns is the fixed column order shared by the table and the
// delimited rendering.
var tableColumns = []string{
	"category", "priority", "pdf_page", "book_page", "original_fragment", "recommendation",
}

// TableText renders the report as a markdown table, one row per finding in
// merge order, followed by any failed-range annotations.
func (r *Report) TableText() string {
	var b strings.Builder

	if r.Document != "" {
		b.WriteString("### Results for: " + r.Document + "\n\n")
	}

	if len(r.Findings) == 0 {
		b.WriteString("No findings in the analyzed pages.\n")
	} else {
		b.WriteString("| " + strings.Join(tableColumns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(tableColumns)) + "\n")
		for _, f := range r.Findings {
			row := []string{
				string(f.Category),
				string(f.Priority),
				strconv.Itoa(f.PDFPage),
				bookPageLabel(f.BookPage),
				escapePipes(f.OriginalFragment),
				escapePipes(f.Recommendation),
			}
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
	}

	for _, fr := range r.FailedRanges {
		b.WriteString("\nPages not analyzed: " + fr.Pages.String() + " (" + fr.Reason + ")\n")
	}

	return b.String()
}

// DelimitedText renders the report as CSV with the same rows and column
// order as TableText.
func (r *Report) DelimitedText() string {
	var b strings.Builder
	w := csv.NewWriter(&b)

	_ = w.Write(tableColumns)
	for _, f := range r.Findings {
		_ = w.Write([]string{
			string(f.Category),
			string(f.Priority),
			strconv.Itoa(f.PDFPage),
			bookPageCSV(f.BookPage),
			f.OriginalFragment,
			f.Recommendation,
		})
	}
	w.Flush()
	return b.String()
}

// SummaryText renders counts in a fixed order so output is reproducible.
func (r *Report) SummaryText() string {
	s := r.Summarize()
	var b strings.Builder

	b.WriteString("Total findings: " + strconv.Itoa(s.Total) + "\n")
	b.WriteString("Pages analyzed: " + strconv.Itoa(s.PagesAnalyzed) + "\n")

	b.WriteString("\nBy category:\n")
	for _, c := range Categories() {
		if n := s.ByCategory[c]; n > 0 {
			b.WriteString("  " + string(c) + ": " + strconv.Itoa(n) + "\n")
		}
	}

	b.WriteString("\nBy priority:\n")
	for _, p := range Priorities() {
		if n := s.ByPriority[p]; n > 0 {
			b.WriteString("  " + string(p) + ": " + strconv.Itoa(n) + "\n")
		}
	}

	return b.String()
}

func bookPageLabel(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func bookPageCSV(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
