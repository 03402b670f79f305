package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and offline runs.
// It returns canned responses in FIFO order, or asks a responder function
// when one is set, and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	respond   func(Request) MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewMockProviderFunc creates a MockProvider that answers each request
// with fn. Useful when calls arrive concurrently and FIFO order is not
// deterministic.
func NewMockProviderFunc(fn func(Request) MockResponse) *MockProvider {
	return &MockProvider{respond: fn}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty. It honors ctx cancellation.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp MockResponse
	switch {
	case m.respond != nil:
		resp = m.respond(req)
	case len(m.responses) == 0:
		return nil, &ErrProviderUnavailable{Err: nil}
	default:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
