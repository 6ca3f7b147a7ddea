package api

import (
	"context"
	"sync"
)

// ReplyGenerator produces a reply for a prompt. GeminiClient is the production implementation.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
	HasCredential() bool
}

// Ensure GeminiClient implements ReplyGenerator
var _ ReplyGenerator = (*GeminiClient)(nil)

// MockReplyGenerator is a mock implementation of ReplyGenerator for testing
type MockReplyGenerator struct {
	// Mock return values
	Reply      string
	Err        error
	Credential bool
	// GenerateFunc overrides Reply/Err when set
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Call recorders
	mu         sync.Mutex
	calls      int
	lastPrompt string
}

// Ensure MockReplyGenerator implements ReplyGenerator
var _ ReplyGenerator = (*MockReplyGenerator)(nil)

func (m *MockReplyGenerator) GenerateReply(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return m.Reply, m.Err
}

func (m *MockReplyGenerator) HasCredential() bool {
	return m.Credential
}

// Calls returns how many times GenerateReply was called
func (m *MockReplyGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the prompt of the most recent call
func (m *MockReplyGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}
