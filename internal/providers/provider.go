// Package providers contains the LLM clients the audit pipeline can talk
// to, plus the shared request/result types and the structured-output gate.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient is the interface the orchestrator calls once per page batch.
type LLMClient interface {
	// Chat sends a chat completion request. The returned error covers
	// transport and provider failures; ChatResult carries the details
	// either way.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g. "gemini").
	Name() string
}

// Message is one chat message. Documents carries inline PDF attachments for
// providers with document input.
type Message struct {
	Role      string   `json:"role"` // "system", "user", "assistant"
	Content   string   `json:"content"`
	Documents [][]byte `json:"-"`
}

// ResponseFormat requests structured JSON output matching Schema.
type ResponseFormat struct {
	Name   string
	Schema map[string]any
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message

	// Model selection (client default if empty)
	Model string

	// Generation parameters
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	Timeout         time.Duration

	// Structured output
	ResponseFormat *ResponseFormat

	// Request tracking
	RequestID string
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	// Response content
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"` // Set if ResponseFormat was requested

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
