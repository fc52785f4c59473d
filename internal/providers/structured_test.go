package providers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseStructuredJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"pages":[]}`,
			want:    `{"pages":[]}`,
		},
		{
			name:    "code fenced",
			content: "```json\n{\"pages\":[]}\n```",
			want:    `{"pages":[]}`,
		},
		{
			name:    "surrounding prose",
			content: "Here is the result:\n{\"pages\":[]}\nDone.",
			want:    `{"pages":[]}`,
		},
		{
			name:    "array",
			content: `[1,2,3]`,
			want:    `[1,2,3]`,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
		{
			name:    "not json",
			content: "no structured output here",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructuredJSON(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateStructuredJSON(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pages": map[string]any{"type": "array"},
		},
		"required": []string{"pages"},
	}

	if err := ValidateStructuredJSON(schema, json.RawMessage(`{"pages":[]}`)); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}

	err := ValidateStructuredJSON(schema, json.RawMessage(`{"other":true}`))
	if err == nil {
		t.Fatal("expected validation error for missing pages")
	}
	if !strings.Contains(err.Error(), "does not match schema") {
		t.Errorf("unexpected error: %v", err)
	}

	// Nil schema or document is a no-op.
	if err := ValidateStructuredJSON(nil, json.RawMessage(`{}`)); err != nil {
		t.Errorf("nil schema should pass: %v", err)
	}
	if err := ValidateStructuredJSON(schema, nil); err != nil {
		t.Errorf("nil document should pass: %v", err)
	}
}
