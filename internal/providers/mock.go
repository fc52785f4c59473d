package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const MockClientName = "mock"

// MockResponse scripts the outcome of a single Chat call.
type MockResponse struct {
	JSON json.RawMessage
	Err  error
}

// MockClient is an LLMClient for testing. Responses can be scripted
// per-call via Script, or a single ResponseJSON can serve every call.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ResponseJSON json.RawMessage

	// Script is consumed one entry per Chat call when non-empty; calls
	// past its end repeat the last entry.
	Script []MockResponse

	mu           sync.Mutex
	requestCount int
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Latency: time.Millisecond,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat sends a mock chat request.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	c.mu.Lock()
	c.requestCount++
	count := c.requestCount
	var scripted *MockResponse
	if len(c.Script) > 0 {
		idx := count - 1
		if idx >= len(c.Script) {
			idx = len(c.Script) - 1
		}
		scripted = &c.Script[idx]
	}
	c.mu.Unlock()

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
		Attempts:  1,
	}

	if scripted != nil && scripted.Err != nil {
		result.ErrorType = "mock_failure"
		result.ErrorMessage = scripted.Err.Error()
		result.ExecutionTime = time.Since(start)
		return result, scripted.Err
	}

	// Simulate latency
	select {
	case <-time.After(c.Latency):
	case <-ctx.Done():
		result.ErrorType = "context_cancelled"
		result.ErrorMessage = ctx.Err().Error()
		result.ExecutionTime = time.Since(start)
		return result, ctx.Err()
	}

	result.Success = true
	result.Content = "mock response"
	result.ExecutionTime = time.Since(start)

	responseJSON := c.ResponseJSON
	if scripted != nil && len(scripted.JSON) > 0 {
		responseJSON = scripted.JSON
	}
	if req.ResponseFormat != nil && len(responseJSON) > 0 {
		result.ParsedJSON = responseJSON
		result.Content = string(responseJSON)
	}

	// Simulate token counting
	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += len(m.Content) / 4
	}
	completionTokens := len(result.Content) / 4
	result.PromptTokens = promptTokens
	result.CompletionTokens = completionTokens
	result.TotalTokens = promptTokens + completionTokens

	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestCount
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
