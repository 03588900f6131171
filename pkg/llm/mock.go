package llm

import (
	"context"
	"sync"
)

// MockClient is a configurable CompletionClient for tests.
// Set CompleteFunc to control behavior. It is safe for concurrent use.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, Complete returns an empty string and nil error.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	mu      sync.Mutex
	prompts []string
}

// NewMockClient creates a mock that always answers with response.
func NewMockClient(response string) *MockClient {
	return &MockClient{
		CompleteFunc: func(context.Context, string) (string, error) {
			return response, nil
		},
	}
}

// Complete implements CompletionClient.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", nil
}

// Calls returns how many times Complete was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// GetModel implements CompletionClient.
func (m *MockClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetProvider implements CompletionClient.
func (m *MockClient) GetProvider() string {
	return "mock"
}

var _ CompletionClient = (*MockClient)(nil)
