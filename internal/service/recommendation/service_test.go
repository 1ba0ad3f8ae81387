package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/mocks"
	"github.com/arborhq/planwise/internal/service/explain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testBatch(primary *mocks.MockExplainer) *explain.Batch {
	return explain.NewBatch(primary, explain.NewTemplate(), time.Second, newTestLogger())
}

func aiExplainer() *mocks.MockExplainer {
	primary := mocks.NewMockExplainer("openai_gpt4o_mini")
	primary.ExplainFunc = func(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
		return "AI explanation for " + ectx.Plan.Plan.ID, nil
	}
	return primary
}

// evCustomer is an EV owner charging overnight on a $0.16 flat rate, spending
// $1,920/year on 1,000 kWh/month.
func evCustomer() *domain.EnrichedCustomer {
	history := make(domain.UsageHistory, 12)
	for i := range history {
		history[i] = domain.MonthlyUsage{
			Month: time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			KWh:   1000,
		}
	}

	customer := &domain.EnrichedCustomer{
		RawData: domain.RawCustomerData{
			CustomerID: "cust_100",
			ServiceAddress: domain.ServiceAddress{
				ZipCode: "78704",
				City:    "Austin",
				State:   "TX",
			},
			UsageHistory: history,
			CurrentPlan: domain.CurrentPlan{
				Provider:      "TexFlat Energy",
				RatePerKWh:    0.16,
				RateStructure: domain.RateStructureFixed,
			},
		},
	}
	customer.Profile.CustomerID = "cust_100"
	customer.Profile.Personal.DisplayName = "Derek T."
	customer.Profile.HomeAttributes.HasEV = true
	customer.Profile.HomeAttributes.EVMakeModel = "Tesla Model Y"
	customer.Profile.HomeAttributes.EVTypicalChargingTime = "after 11pm"
	customer.Profile.HomeAttributes.EVMonthlyKWhEstimate = 400
	customer.Profile.Preferences = domain.Preferences{
		PrimaryConcern:    domain.ConcernCostSavings,
		RenewablePriority: domain.RenewableLow,
		MaxContractMonths: 24,
	}
	customer.Insights = domain.CustomerInsights{
		CustomerID: "cust_100",
		UsageAnalysis: domain.UsageAnalysis{
			AvgMonthlyKWh:  1000,
			TotalAnnualKWh: 12000,
		},
		FinancialAnalysis: domain.FinancialAnalysis{
			CurrentAnnualCost:  1920,
			YearsOnCurrentPlan: 1.2,
			RateTrend:          domain.RateTrend{Direction: "stable", CurrentRate: 0.16},
		},
		CustomerSegment: domain.SegmentEVOwnerFlatRate,
	}
	return customer
}

func testCatalog() []domain.Plan {
	return []domain.Plan{
		{
			ID: "plan_longlock", Name: "Long Lock 36", Structure: domain.RateStructureFixed,
			Fixed:                &domain.FixedRates{RatePerKWh: 0.105},
			ContractLengthMonths: 36, RenewablePercentage: 30, SupplierRating: 4.2,
		},
		{
			ID: "plan_nightowl", Name: "Night Owl EV", Structure: domain.RateStructureTimeOfUse,
			TOU:                  &domain.TOURates{PeakRate: 0.185, OffPeakRate: 0.098, SuperOffPeakRate: 0.045},
			ContractLengthMonths: 12, RenewablePercentage: 35, SupplierRating: 4.7,
			TimeOfUse: true, EVOptimized: true,
		},
		{
			ID: "plan_basic_a", Name: "Basic A", Structure: domain.RateStructureFixed,
			Fixed:                &domain.FixedRates{RatePerKWh: 0.14},
			ContractLengthMonths: 12, RenewablePercentage: 20, SupplierRating: 3.5,
		},
		{
			ID: "plan_basic_b", Name: "Basic B", Structure: domain.RateStructureFixed,
			Fixed:                &domain.FixedRates{RatePerKWh: 0.145},
			ContractLengthMonths: 12, RenewablePercentage: 15, SupplierRating: 4.0,
		},
		{
			ID: "plan_basic_c", Name: "Basic C", Structure: domain.RateStructureFixed,
			Fixed:                &domain.FixedRates{RatePerKWh: 0.142},
			ContractLengthMonths: 12, RenewablePercentage: 10, SupplierRating: 3.8,
		},
	}
}

func TestGenerate_FullPipeline(t *testing.T) {
	// Arrange
	repo := mocks.NewMockCustomerRepository()
	repo.Customers["cust_100"] = evCustomer()
	catalog := mocks.NewMockPlanCatalog()
	catalog.CatalogPlans = testCatalog()
	cache := mocks.NewMockCache()
	mq := mocks.NewMockMessageQueue()

	svc := NewService(repo, catalog, cache, testBatch(aiExplainer()), mq, time.Minute, newTestLogger())

	// Act
	resp, err := svc.Generate(context.Background(), domain.RecommendationRequest{CustomerID: "cust_100"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.RequestID == "" {
		t.Error("expected a request ID")
	}
	if resp.CustomerSummary.DisplayName != "Derek T." {
		t.Errorf("unexpected display name %q", resp.CustomerSummary.DisplayName)
	}
	if resp.CustomerSummary.CurrentAnnualCost != 1920 {
		t.Errorf("expected current annual cost 1920, got %v", resp.CustomerSummary.CurrentAnnualCost)
	}

	if len(resp.TopRecommendations) != 3 {
		t.Fatalf("expected top 3 recommendations, got %d", len(resp.TopRecommendations))
	}
	for i, rec := range resp.TopRecommendations {
		if rec.Rank != i+1 {
			t.Errorf("recommendation %d has rank %d", i, rec.Rank)
		}
		if rec.Explanation != "AI explanation for "+rec.PlanID {
			t.Errorf("explanation misaligned for %s: %q", rec.PlanID, rec.Explanation)
		}
	}

	// The TOU plan wins for an overnight-charging EV owner.
	best := resp.TopRecommendations[0]
	if best.PlanID != "plan_nightowl" {
		t.Errorf("expected plan_nightowl to rank first, got %s", best.PlanID)
	}
	// Projected TOU cost is 957.84 against a 1920 current cost.
	if math.Abs(best.FinancialImpact.AnnualSavings-962.16) > 0.01 {
		t.Errorf("expected annual savings 962.16, got %v", best.FinancialImpact.AnnualSavings)
	}
	if math.Abs(best.FinancialImpact.MonthlySavings-80.18) > 0.01 {
		t.Errorf("expected monthly savings 80.18, got %v", best.FinancialImpact.MonthlySavings)
	}

	if len(resp.BehaviorSuggestions) != 1 {
		t.Fatalf("expected 1 behavior suggestion, got %d", len(resp.BehaviorSuggestions))
	}
	if resp.BehaviorSuggestions[0].Type != "ev_time_of_use_switch" {
		t.Errorf("unexpected suggestion type %s", resp.BehaviorSuggestions[0].Type)
	}

	if resp.Metadata.PlansAnalyzed != 4 {
		t.Errorf("expected 4 plans analyzed, got %d", resp.Metadata.PlansAnalyzed)
	}
	if resp.Metadata.PlansExcluded != 1 {
		t.Errorf("expected 1 plan excluded, got %d", resp.Metadata.PlansExcluded)
	}
	if len(resp.Metadata.ExclusionReasons) != 1 || resp.Metadata.ExclusionReasons[0] != "contract_too_long" {
		t.Errorf("unexpected exclusion reasons %v", resp.Metadata.ExclusionReasons)
	}
	if resp.Metadata.ExplanationSource != "openai_gpt4o_mini" {
		t.Errorf("unexpected explanation source %s", resp.Metadata.ExplanationSource)
	}
	if resp.Metadata.FallbackUsed {
		t.Error("expected fallback_used false")
	}

	events := mq.PublishedMessages["recommendations.generated"]
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	var event map[string]interface{}
	if err := json.Unmarshal(events[0], &event); err != nil {
		t.Fatalf("event is not valid JSON: %v", err)
	}
	if event["customer_id"] != "cust_100" {
		t.Errorf("unexpected event customer_id %v", event["customer_id"])
	}
	if event["top_plan_id"] != "plan_nightowl" {
		t.Errorf("unexpected event top_plan_id %v", event["top_plan_id"])
	}
}

func TestGenerate_MissingCustomerID(t *testing.T) {
	// Arrange
	svc := NewService(mocks.NewMockCustomerRepository(), mocks.NewMockPlanCatalog(),
		mocks.NewMockCache(), testBatch(aiExplainer()), mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	// Act
	_, err := svc.Generate(context.Background(), domain.RecommendationRequest{})

	// Assert
	if !errors.Is(err, domain.ErrMissingCustomerID) {
		t.Errorf("expected ErrMissingCustomerID, got %v", err)
	}
}

func TestGenerate_CustomerNotFound(t *testing.T) {
	// Arrange
	svc := NewService(mocks.NewMockCustomerRepository(), mocks.NewMockPlanCatalog(),
		mocks.NewMockCache(), testBatch(aiExplainer()), mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	// Act
	_, err := svc.Generate(context.Background(), domain.RecommendationRequest{CustomerID: "nope"})

	// Assert
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestGenerate_CacheHitSkipsRepository(t *testing.T) {
	// Arrange
	ctx := context.Background()
	customer := evCustomer()
	cached, _ := json.Marshal(customer)

	repo := mocks.NewMockCustomerRepository()
	repo.LoadCustomerFunc = func(ctx context.Context, customerID string) (*domain.EnrichedCustomer, error) {
		t.Error("repository should not be called on cache hit")
		return nil, domain.ErrCustomerNotFound
	}
	cache := mocks.NewMockCache()
	cache.Set(ctx, "customer:cust_100", string(cached), time.Minute)

	catalog := mocks.NewMockPlanCatalog()
	catalog.CatalogPlans = testCatalog()

	svc := NewService(repo, catalog, cache, testBatch(aiExplainer()), mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	// Act
	resp, err := svc.Generate(ctx, domain.RecommendationRequest{CustomerID: "cust_100"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.CustomerSummary.CustomerID != "cust_100" {
		t.Errorf("unexpected customer %s", resp.CustomerSummary.CustomerID)
	}
}

func TestGenerate_InvalidPlanSkippedNotFatal(t *testing.T) {
	// Arrange
	repo := mocks.NewMockCustomerRepository()
	repo.Customers["cust_100"] = evCustomer()
	catalog := mocks.NewMockPlanCatalog()
	catalog.CatalogPlans = []domain.Plan{
		// Declares fixed but carries no rate; dropped during costing.
		{ID: "plan_broken", Name: "Broken", Structure: domain.RateStructureFixed,
			ContractLengthMonths: 12, RenewablePercentage: 50, SupplierRating: 4.0},
		{ID: "plan_good", Name: "Good", Structure: domain.RateStructureFixed,
			Fixed:                &domain.FixedRates{RatePerKWh: 0.12},
			ContractLengthMonths: 12, RenewablePercentage: 50, SupplierRating: 4.0},
	}

	svc := NewService(repo, catalog, mocks.NewMockCache(), testBatch(aiExplainer()),
		mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	// Act
	resp, err := svc.Generate(context.Background(), domain.RecommendationRequest{CustomerID: "cust_100"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.TopRecommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(resp.TopRecommendations))
	}
	if resp.TopRecommendations[0].PlanID != "plan_good" {
		t.Errorf("expected plan_good, got %s", resp.TopRecommendations[0].PlanID)
	}
	// The broken plan passed the filter; it was only dropped at costing.
	if resp.Metadata.PlansAnalyzed != 2 {
		t.Errorf("expected 2 plans analyzed, got %d", resp.Metadata.PlansAnalyzed)
	}
}

func TestGenerate_PreferenceOverridesApplyPerRequest(t *testing.T) {
	// Arrange
	repo := mocks.NewMockCustomerRepository()
	customer := evCustomer()
	repo.Customers["cust_100"] = customer
	catalog := mocks.NewMockPlanCatalog()
	catalog.CatalogPlans = testCatalog()

	svc := NewService(repo, catalog, mocks.NewMockCache(), testBatch(aiExplainer()),
		mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	maxContract := 48
	req := domain.RecommendationRequest{CustomerID: "cust_100"}
	req.Preferences = &struct {
		Priority            domain.PrimaryConcern    `json:"priority,omitempty"`
		RenewablePreference domain.RenewablePriority `json:"renewable_preference,omitempty"`
		MaxContractMonths   *int                     `json:"max_contract_months,omitempty"`
	}{MaxContractMonths: &maxContract}

	// Act
	resp, err := svc.Generate(context.Background(), req)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// The 36-month plan is now eligible.
	if resp.Metadata.PlansAnalyzed != 5 {
		t.Errorf("expected 5 plans analyzed with relaxed contract cap, got %d", resp.Metadata.PlansAnalyzed)
	}
	// The stored profile must be untouched.
	if customer.Profile.Preferences.MaxContractMonths != 24 {
		t.Errorf("stored profile mutated: max contract %d", customer.Profile.Preferences.MaxContractMonths)
	}
}

func TestGenerate_EmptyCatalogYieldsEmptyRecommendations(t *testing.T) {
	// Arrange
	repo := mocks.NewMockCustomerRepository()
	repo.Customers["cust_100"] = evCustomer()

	svc := NewService(repo, mocks.NewMockPlanCatalog(), mocks.NewMockCache(),
		testBatch(aiExplainer()), mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	// Act
	resp, err := svc.Generate(context.Background(), domain.RecommendationRequest{CustomerID: "cust_100"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.TopRecommendations) != 0 {
		t.Errorf("expected no recommendations, got %d", len(resp.TopRecommendations))
	}
	if len(resp.BehaviorSuggestions) != 0 {
		t.Errorf("expected no behavior suggestions, got %d", len(resp.BehaviorSuggestions))
	}
}

func TestGenerate_TemplateFallbackReportedInMetadata(t *testing.T) {
	// Arrange
	repo := mocks.NewMockCustomerRepository()
	repo.Customers["cust_100"] = evCustomer()
	catalog := mocks.NewMockPlanCatalog()
	catalog.CatalogPlans = testCatalog()

	failing := mocks.NewMockExplainer("openai_gpt4o_mini")
	failing.ExplainFunc = func(ctx context.Context, ectx domain.ExplanationContext) (string, error) {
		return "", errors.New("upstream down")
	}

	svc := NewService(repo, catalog, mocks.NewMockCache(), testBatch(failing),
		mocks.NewMockMessageQueue(), time.Minute, newTestLogger())

	// Act
	resp, err := svc.Generate(context.Background(), domain.RecommendationRequest{CustomerID: "cust_100"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.Metadata.FallbackUsed {
		t.Error("expected fallback_used true")
	}
	for _, rec := range resp.TopRecommendations {
		if rec.Explanation == "" {
			t.Errorf("plan %s has empty explanation", rec.PlanID)
		}
	}
}
