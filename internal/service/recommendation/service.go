// Package recommendation orchestrates one recommendation run: load customer,
// filter the catalog, cost and rank the survivors, explain the top picks,
// detect behavior opportunities, and assemble the response.
package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/adapter/queue"
	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/observability/telemetry"
	"github.com/arborhq/planwise/internal/ports"
	"github.com/arborhq/planwise/internal/service/behavior"
	"github.com/arborhq/planwise/internal/service/costmodel"
	"github.com/arborhq/planwise/internal/service/explain"
	"github.com/arborhq/planwise/internal/service/scoring"
)

const (
	topN = 3

	// Subject for the post-generation event, consumed by analytics.
	subjectGenerated = "recommendations.generated"
)

// Service implements ports.RecommendationService.
type Service struct {
	customers ports.CustomerRepository
	catalog   ports.PlanCatalog
	cache     ports.Cache
	explainer *explain.Batch
	mq        queue.MessageQueue
	cacheTTL  time.Duration
	log       *zap.Logger
}

// NewService wires the engine. Cache and mq may be nil-free no-ops in tests;
// both are best-effort collaborators that never fail a request.
func NewService(
	customers ports.CustomerRepository,
	catalog ports.PlanCatalog,
	cache ports.Cache,
	explainer *explain.Batch,
	mq queue.MessageQueue,
	cacheTTL time.Duration,
	log *zap.Logger,
) ports.RecommendationService {
	return &Service{
		customers: customers,
		catalog:   catalog,
		cache:     cache,
		explainer: explainer,
		mq:        mq,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Generate runs the full pipeline for one request. The pipeline is linear
// with no retries; either a complete ranked response is produced or the
// request fails.
func (s *Service) Generate(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResponse, error) {
	if req.CustomerID == "" {
		return nil, domain.ErrMissingCustomerID
	}

	tracer := otel.Tracer("planwise/recommendation")
	ctx, span := tracer.Start(ctx, "recommendation.generate")
	defer span.End()
	span.SetAttributes(attribute.String("customer_id", req.CustomerID))

	start := time.Now()
	requestID := "req_" + uuid.NewString()

	customer, err := s.loadCustomer(ctx, req.CustomerID)
	if err != nil {
		telemetry.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Overrides apply to a request-local copy; the stored profile is never
	// mutated.
	profile := customer.Profile
	if req.Preferences != nil {
		if req.Preferences.Priority != "" {
			profile.Preferences.PrimaryConcern = req.Preferences.Priority
		}
		if req.Preferences.RenewablePreference != "" {
			profile.Preferences.RenewablePriority = req.Preferences.RenewablePreference
		}
		if req.Preferences.MaxContractMonths != nil {
			profile.Preferences.MaxContractMonths = *req.Preferences.MaxContractMonths
		}
	}

	allPlans, err := s.catalog.Plans(ctx, customer.RawData.ServiceAddress.ZipCode)
	if err != nil {
		telemetry.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}

	eligible := scoring.FilterPlans(allPlans, profile, customer.Insights)

	// Cost every survivor. A plan whose declared structure is missing its
	// rate fields is a catalog data problem; it is dropped with a
	// diagnostic and must never abort scoring of the rest.
	costed := make([]scoring.PlanWithCost, 0, len(eligible))
	for _, plan := range eligible {
		cost, err := costmodel.ProjectAnnualCost(customer.RawData.UsageHistory, plan, profile)
		if err != nil {
			var invalid *domain.InvalidPlanDataError
			if errors.As(err, &invalid) {
				s.log.Warn("Skipping plan with invalid rate data",
					zap.String("plan_id", invalid.PlanID),
					zap.String("reason", invalid.Reason),
				)
				telemetry.InvalidPlansTotal.Inc()
				continue
			}
			telemetry.RecommendationsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		costed = append(costed, scoring.PlanWithCost{Plan: plan, ProjectedCost: cost})
	}

	scored := scoring.ScoreAndRank(costed, customer.Insights, profile)

	top := scored
	if len(top) > topN {
		top = top[:topN]
	}

	ectxs := make([]domain.ExplanationContext, len(top))
	for i, sp := range top {
		ectxs[i] = domain.ExplanationContext{
			Customer: *customer,
			Plan:     sp,
			Savings:  customer.Insights.FinancialAnalysis.CurrentAnnualCost - sp.ProjectedCost,
		}
	}
	explanations, fellBack := s.explainer.ExplainAll(ctx, ectxs)

	recommendations := make([]domain.PlanRecommendation, len(top))
	for i, sp := range top {
		recommendations[i] = buildPlanRecommendation(sp, i+1, ectxs[i].Savings, explanations[i])
	}

	var suggestions []domain.BehaviorOpportunity
	if len(scored) > 0 {
		suggestions = behavior.Detect(profile, customer.RawData, customer.Insights, scored[0].Plan)
	}

	exclusionReasons := scoring.ExclusionReasons(allPlans, profile)
	for _, reason := range exclusionReasons {
		telemetry.PlansFilteredTotal.WithLabelValues(reason).Inc()
	}

	source := s.explainer.Source()
	resp := &domain.RecommendationResponse{
		RequestID:        requestID,
		GeneratedAt:      time.Now().UTC(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CustomerSummary: domain.CustomerSummary{
			CustomerID:        req.CustomerID,
			DisplayName:       customer.Profile.Personal.DisplayName,
			CurrentAnnualCost: customer.Insights.FinancialAnalysis.CurrentAnnualCost,
			AvgMonthlyKWh:     customer.Insights.UsageAnalysis.AvgMonthlyKWh,
			YearsOnPlan:       customer.Insights.FinancialAnalysis.YearsOnCurrentPlan,
		},
		TopRecommendations:  recommendations,
		BehaviorSuggestions: suggestions,
		CurrentPlanAnalysis: buildCurrentPlanAnalysis(customer.Insights),
		Metadata: domain.Metadata{
			PlansAnalyzed:     len(eligible),
			PlansExcluded:     len(allPlans) - len(eligible),
			ExclusionReasons:  exclusionReasons,
			ExplanationSource: source,
			FallbackUsed:      fellBack || source != "openai_gpt4o_mini",
		},
	}

	s.publishGenerated(resp)

	telemetry.RecommendationsTotal.WithLabelValues("ok").Inc()
	telemetry.RecommendationDuration.Observe(time.Since(start).Seconds())

	return resp, nil
}

// loadCustomer reads the enriched customer through the cache. Cache failures
// only cost a repository read.
func (s *Service) loadCustomer(ctx context.Context, customerID string) (*domain.EnrichedCustomer, error) {
	cacheKey := "customer:" + customerID

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var customer domain.EnrichedCustomer
			if err := json.Unmarshal([]byte(cached), &customer); err == nil {
				return &customer, nil
			}
		}
	}

	customer, err := s.customers.LoadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(customer); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), s.cacheTTL); err != nil {
				s.log.Warn("Failed to cache customer", zap.String("customer_id", customerID), zap.Error(err))
			}
		}
	}

	return customer, nil
}

// publishGenerated emits the post-generation event. Best effort: a queue
// failure is logged, never surfaced.
func (s *Service) publishGenerated(resp *domain.RecommendationResponse) {
	if s.mq == nil {
		return
	}

	event := map[string]interface{}{
		"request_id":   resp.RequestID,
		"customer_id":  resp.CustomerSummary.CustomerID,
		"generated_at": resp.GeneratedAt,
	}
	if len(resp.TopRecommendations) > 0 {
		event["top_plan_id"] = resp.TopRecommendations[0].PlanID
		event["annual_savings"] = resp.TopRecommendations[0].FinancialImpact.AnnualSavings
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.mq.Publish(subjectGenerated, data); err != nil {
		s.log.Warn("Failed to publish recommendation event", zap.Error(err))
	}
}
