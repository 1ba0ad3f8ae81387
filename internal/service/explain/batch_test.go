package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func explainContexts(n int) []domain.ExplanationContext {
	ectxs := make([]domain.ExplanationContext, n)
	for i := range ectxs {
		ectxs[i] = domain.ExplanationContext{
			Plan: domain.ScoredPlan{
				Plan: domain.Plan{ID: fmt.Sprintf("plan_%d", i), Name: fmt.Sprintf("Plan %d", i)},
			},
			Savings: 250,
		}
	}
	return ectxs
}

func TestExplainAll_AllPrimarySucceed(t *testing.T) {
	// Arrange
	primary := mocks.NewMockExplainer("openai_gpt4o_mini")
	primary.ExplainFunc = func(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
		return "AI explanation for " + ectx.Plan.Plan.ID, nil
	}
	batch := NewBatch(primary, NewTemplate(), time.Second, newTestLogger())

	// Act
	explanations, fellBack := batch.ExplainAll(context.Background(), explainContexts(3))

	// Assert
	if fellBack {
		t.Error("expected no fallback")
	}
	if len(explanations) != 3 {
		t.Fatalf("expected 3 explanations, got %d", len(explanations))
	}
	for i, text := range explanations {
		want := fmt.Sprintf("AI explanation for plan_%d", i)
		if text != want {
			t.Errorf("explanation %d misaligned: expected %q, got %q", i, want, text)
		}
	}
	if primary.Calls() != 3 {
		t.Errorf("expected 3 primary calls, got %d", primary.Calls())
	}
}

func TestExplainAll_SingleFailureDegradesOnlyThatPlan(t *testing.T) {
	// Arrange
	primary := mocks.NewMockExplainer("openai_gpt4o_mini")
	primary.ExplainFunc = func(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
		if ectx.Plan.Plan.ID == "plan_1" {
			return "", errors.New("upstream unavailable")
		}
		return "AI explanation for " + ectx.Plan.Plan.ID, nil
	}
	batch := NewBatch(primary, NewTemplate(), time.Second, newTestLogger())

	// Act
	explanations, fellBack := batch.ExplainAll(context.Background(), explainContexts(3))

	// Assert
	if !fellBack {
		t.Error("expected fallback to be reported")
	}
	if explanations[0] != "AI explanation for plan_0" || explanations[2] != "AI explanation for plan_2" {
		t.Error("healthy plans should keep their primary explanations")
	}
	if explanations[1] == "" || strings.Contains(explanations[1], "AI explanation") {
		t.Errorf("expected template text for the failed plan, got %q", explanations[1])
	}
}

func TestExplainAll_EmptyResponseFallsBack(t *testing.T) {
	// Arrange
	primary := mocks.NewMockExplainer("openai_gpt4o_mini")
	primary.ExplainFunc = func(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
		return "", nil
	}
	batch := NewBatch(primary, NewTemplate(), time.Second, newTestLogger())

	// Act
	explanations, fellBack := batch.ExplainAll(context.Background(), explainContexts(1))

	// Assert
	if !fellBack {
		t.Error("expected fallback on empty response")
	}
	if explanations[0] == "" {
		t.Error("expected template text, got empty string")
	}
}

func TestExplainAll_SlowCallTimesOut(t *testing.T) {
	// Arrange
	primary := mocks.NewMockExplainer("openai_gpt4o_mini")
	primary.ExplainFunc = func(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
			return "too late", nil
		}
	}
	batch := NewBatch(primary, NewTemplate(), 50*time.Millisecond, newTestLogger())

	// Act
	start := time.Now()
	explanations, fellBack := batch.ExplainAll(context.Background(), explainContexts(2))
	elapsed := time.Since(start)

	// Assert
	if !fellBack {
		t.Error("expected fallback after timeout")
	}
	for i, text := range explanations {
		if text == "" || text == "too late" {
			t.Errorf("explanation %d: expected template text, got %q", i, text)
		}
	}
	// Calls run concurrently, so the batch is bounded by one timeout.
	if elapsed > 2*time.Second {
		t.Errorf("batch took %v, calls do not appear concurrent", elapsed)
	}
}

func TestExplainAll_NilPrimaryUsesTemplateWithoutFallbackFlag(t *testing.T) {
	// Arrange
	batch := NewBatch(nil, NewDemoTemplate(), time.Second, newTestLogger())

	// Act
	explanations, fellBack := batch.ExplainAll(context.Background(), explainContexts(2))

	// Assert
	if fellBack {
		t.Error("template-only mode is not a degradation")
	}
	for i, text := range explanations {
		if text == "" {
			t.Errorf("explanation %d empty", i)
		}
	}
	if batch.Source() != "demo_mode_fallback" {
		t.Errorf("expected demo_mode_fallback source, got %s", batch.Source())
	}
}

func TestTemplate_SegmentOpenings(t *testing.T) {
	// Arrange
	tmpl := NewTemplate()
	ectx := domain.ExplanationContext{Savings: 320}
	ectx.Customer.Insights.CustomerSegment = domain.SegmentLoyaltyPenaltyVictim
	ectx.Customer.Insights.FinancialAnalysis.YearsOnCurrentPlan = 6
	ectx.Plan.Plan.RenewablePercentage = 100

	// Act
	text, err := tmpl.Explain(context.Background(), ectx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(text, "6 years") {
		t.Errorf("expected tenure in opening, got %q", text)
	}
	if !strings.Contains(text, "$320") {
		t.Errorf("expected savings amount, got %q", text)
	}
	if !strings.Contains(text, "100% renewable") {
		t.Errorf("expected renewable close, got %q", text)
	}
	if tmpl.Source() != "fallback_template" {
		t.Errorf("expected fallback_template source, got %s", tmpl.Source())
	}
}
