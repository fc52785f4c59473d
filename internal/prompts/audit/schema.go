package audit

// RequestSchema is the strict JSON schema sent to the model as the desired
// response format. Category and priority are constrained here so the model
// is steered toward the canonical labels.
var RequestSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"pages": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pdf_page": map[string]any{
						"type":        "integer",
						"description": "Page number in the original document numbering",
					},
					"book_page": map[string]any{
						"type":        "string",
						"description": "Page number as printed on the page, empty if none",
					},
					"language": map[string]any{
						"type": "string",
						"enum": []string{"spanish", "english"},
					},
					"findings": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"category": map[string]any{
									"type": "string",
									"enum": []string{
										"gender_bias",
										"religion_bias",
										"politics_bias",
										"spelling",
										"grammar",
										"semantics",
									},
								},
								"priority": map[string]any{
									"type": "string",
									"enum": []string{"High", "Medium", "Low"},
								},
								"original_fragment": map[string]any{"type": "string"},
								"recommendation":    map[string]any{"type": "string"},
							},
							"required": []string{
								"category", "priority", "original_fragment", "recommendation",
							},
							"additionalProperties": false,
						},
					},
				},
				"required":             []string{"pdf_page", "findings"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"pages"},
	"additionalProperties": false,
}

// EnvelopeSchema is the structural gate applied locally to each batch
// response. It deliberately carries no category/priority enums: an unknown
// label drops one record in the validator instead of failing the batch.
var EnvelopeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"pages": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pdf_page":  map[string]any{"type": "integer"},
					"book_page": map[string]any{"type": "string"},
					"language":  map[string]any{"type": "string"},
					"findings": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"category":          map[string]any{"type": "string"},
								"priority":          map[string]any{"type": "string"},
								"original_fragment": map[string]any{"type": "string"},
								"recommendation":    map[string]any{"type": "string"},
							},
						},
					},
				},
				"required": []string{"pdf_page", "findings"},
			},
		},
	},
	"required": []string{"pages"},
}

// Envelope is the parsed shape of one batch response.
type Envelope struct {
	Pages []PageResult `json:"pages"`
}

// PageResult carries the model's findings for a single page.
type PageResult struct {
	PDFPage  int             `json:"pdf_page"`
	BookPage string          `json:"book_page"`
	Language string          `json:"language"`
	Findings []FindingResult `json:"findings"`
}

// FindingResult is one raw finding as emitted by the model.
type FindingResult struct {
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	OriginalFragment string `json:"original_fragment"`
	Recommendation   string `json:"recommendation"`
}
