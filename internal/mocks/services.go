package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/arborhq/planwise/internal/domain"
)

// MockExplainer is a mock implementation of Explainer interface. Explain may
// be called from concurrent goroutines, so the call counter is guarded.
type MockExplainer struct {
	SourceName  string
	ExplainFunc func(ctx context.Context, ectx domain.ExplanationContext) (string, error)

	mu    sync.Mutex
	calls int
}

func NewMockExplainer(source string) *MockExplainer {
	return &MockExplainer{SourceName: source}
}

func (m *MockExplainer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockExplainer) Explain(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ExplainFunc != nil {
		return m.ExplainFunc(ctx, ectx)
	}
	return fmt.Sprintf("Explanation for %s", ectx.Plan.Plan.Name), nil
}

func (m *MockExplainer) Source() string {
	if m.SourceName != "" {
		return m.SourceName
	}
	return "mock"
}
