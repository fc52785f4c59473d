// Package pdf wraps the pdfcpu operations the audit pipeline needs:
// counting pages and extracting contiguous page ranges as standalone
// PDF documents for model input.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is an opened PDF with a known page count.
type Document struct {
	path      string
	pageCount int
}

// Open validates the file and reads its page count.
func Open(path string) (*Document, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, fmt.Errorf("not a PDF file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	if pageCount < 1 {
		return nil, fmt.Errorf("PDF %s has no pages", path)
	}

	return &Document{path: path, pageCount: pageCount}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Name returns the base file name without the extension.
func (d *Document) Name() string {
	base := filepath.Base(d.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pageCount
}

// ExtractRange returns pages start..end (1-indexed, inclusive) as a
// standalone PDF.
func (d *Document) ExtractRange(start, end int) ([]byte, error) {
	if start < 1 || end > d.pageCount || start > end {
		return nil, fmt.Errorf("page range %d-%d out of bounds (document has %d pages)", start, end, d.pageCount)
	}

	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sel string
	if start == end {
		sel = fmt.Sprintf("%d", start)
	} else {
		sel = fmt.Sprintf("%d-%d", start, end)
	}

	var buf bytes.Buffer
	if err := api.Trim(f, &buf, []string{sel}, nil); err != nil {
		return nil, fmt.Errorf("failed to extract pages %s from %s: %w", sel, d.path, err)
	}
	return buf.Bytes(), nil
}
