package ports

import (
	"context"

	"github.com/arborhq/planwise/internal/domain"
)

// RecommendationService produces a complete ranked recommendation for one
// customer, or fails; no partial results.
type RecommendationService interface {
	Generate(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResponse, error)
}

// Explainer turns one plan-for-customer pairing into a short natural-language
// explanation. Implementations may call out to a text-generation service; the
// engine depends only on this interface and degrades to a deterministic
// template when a call fails.
type Explainer interface {
	Explain(ctx context.Context, ectx domain.ExplanationContext) (string, error)
	// Source tags where explanations come from, e.g. "openai_gpt4o_mini" or
	// "fallback_template".
	Source() string
}
