package audit

import (
	"strconv"
	"strings"
)

// Category classifies a finding as a bias or language-quality issue.
type Category string

const (
	CategoryGenderBias   Category = "gender_bias"
	CategoryReligionBias Category = "religion_bias"
	CategoryPoliticsBias Category = "politics_bias"
	CategorySpelling     Category = "spelling"
	CategoryGrammar      Category = "grammar"
	CategorySemantics    Category = "semantics"
)

// Categories returns all valid categories in stable report order.
func Categories() []Category {
	return []Category{
		CategoryGenderBias,
		CategoryReligionBias,
		CategoryPoliticsBias,
		CategorySpelling,
		CategoryGrammar,
		CategorySemantics,
	}
}

// categoryAliases maps the Spanish labels the model was originally trained
// to emit onto the canonical category set.
var categoryAliases = map[string]Category{
	"gender_bias":    CategoryGenderBias,
	"religion_bias":  CategoryReligionBias,
	"politics_bias":  CategoryPoliticsBias,
	"spelling":       CategorySpelling,
	"grammar":        CategoryGrammar,
	"semantics":      CategorySemantics,
	"sesgo_genero":   CategoryGenderBias,
	"sesgo_religion": CategoryReligionBias,
	"sesgo_politica": CategoryPoliticsBias,
	"ortografia":     CategorySpelling,
	"gramatica":      CategoryGrammar,
	"semantica":      CategorySemantics,
}

// ParseCategory normalizes a raw category label. Unrecognized labels return
// false; callers drop the record rather than failing the batch.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Priority is the triage level of a finding.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities returns all priorities from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

var priorityAliases = map[string]Priority{
	"high":   PriorityHigh,
	"medium": PriorityMedium,
	"low":    PriorityLow,
	"alta":   PriorityHigh,
	"media":  PriorityMedium,
	"baja":   PriorityLow,
}

// ParsePriority normalizes a raw priority label, case-insensitively.
// Unmatched values fall back to Medium.
func ParsePriority(s string) Priority {
	if p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return PriorityMedium
}

// Finding is one validated issue detected on a document page.
// Findings are immutable once produced by the Validator.
type Finding struct {
	Category         Category `json:"category"`
	Priority         Priority `json:"priority"`
	PDFPage          int      `json:"pdf_page"`
	BookPage         *int     `json:"book_page,omitempty"`
	OriginalFragment string   `json:"original_fragment"`
	Recommendation   string   `json:"recommendation"`
	Language         string   `json:"language,omitempty"`
}

// PageRange is an inclusive, 1-indexed page interval.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether page falls inside the range.
func (r PageRange) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

// Pages returns the number of pages in the range.
func (r PageRange) Pages() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

func (r PageRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}
