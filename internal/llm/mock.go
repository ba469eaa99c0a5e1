package llm

import (
	"context"
	"encoding/json"
	"sync"
)

type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider 按顺序返回预设响应，队列用完后交给 Fallback
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockResponse
	Calls    []Request
	Fallback func(req Request) (json.RawMessage, error)
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		if next.Err != nil {
			return nil, next.Err
		}
		return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
	}

	if m.Fallback == nil {
		return nil, &ErrProviderUnavailable{}
	}
	content, err := m.Fallback(req)
	if err != nil {
		return nil, err
	}
	return output{text: string(content), model: "mock"}.response(req.Schema)
}

func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, resp)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
